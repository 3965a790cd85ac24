package tester

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/parser"
)

// EventType classifies a live test event.
type EventType int

const (
	// EventStarting indicates a test is about to start
	EventStarting EventType = iota
	// EventCompleted indicates a test has completed
	EventCompleted
)

// TestEvent is one event during a test run.
type TestEvent struct {
	Type      EventType
	Operation models.Operation
	Result    *models.TestResult // nil for Starting events
	Index     int                // current test index (0-based)
	Total     int                // total number of tests
}

// OnTestEvent is a callback for live test events.
type OnTestEvent func(event TestEvent)

// Tester exercises a running server against one specification document.
// It is bound to the document's parser at construction and carries no
// other state between runs.
type Tester struct {
	parser         *parser.Parser
	requestBuilder *RequestBuilder
	checker        *ResponseChecker
	client         *http.Client
}

// NewTester builds a tester for one document with a configurable request
// timeout.
func NewTester(p *parser.Parser, timeout time.Duration) *Tester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Tester{
		parser:         p,
		requestBuilder: NewRequestBuilder(p),
		checker:        NewResponseChecker(p),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// TestOperation sends one generated request and checks the response
// against the operation's declared contract. Failures surface in the
// result; the error return is reserved for broken documents.
func (t *Tester) TestOperation(op models.Operation) (models.TestResult, error) {
	result := models.TestResult{
		Path:        op.Path,
		Method:      op.Method,
		OperationID: op.OperationID,
		Passed:      false,
	}

	opDetails, err := t.parser.OperationDetails(op.Path, op.Method)
	if err != nil {
		result.Error = fmt.Sprintf("failed to get operation details: %v", err)
		return result, nil
	}

	req, err := t.requestBuilder.BuildRequest(opDetails, op.ServerURL)
	if err != nil {
		result.Error = fmt.Sprintf("failed to build request: %v", err)
		return result, nil
	}

	startTime := time.Now()
	resp, err := t.client.Do(req)
	result.ResponseTime = time.Since(startTime)

	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, nil
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	validationErrors, err := t.checker.Check(resp, opDetails)
	if err != nil {
		result.Error = fmt.Sprintf("validation error: %v", err)
		return result, nil
	}

	result.ValidationErrors = validationErrors

	if len(validationErrors) == 0 {
		result.Passed = true
	} else {
		var errorMsgs []string
		for _, ve := range validationErrors {
			errorMsgs = append(errorMsgs, ve.String())
		}
		result.Error = fmt.Sprintf("validation failed: %s", strings.Join(errorMsgs, "; "))
	}

	return result, nil
}

// TestOperations runs a list of operations sequentially with optional
// live event reporting.
func (t *Tester) TestOperations(operations []models.Operation, onEvent OnTestEvent) models.TestSummary {
	summary := models.TestSummary{
		Results: make([]models.TestResult, 0, len(operations)),
	}
	total := len(operations)

	for i, op := range operations {
		if onEvent != nil {
			onEvent(TestEvent{Type: EventStarting, Operation: op, Index: i, Total: total})
		}

		result, err := t.TestOperation(op)
		if err != nil {
			result.Error = fmt.Sprintf("test execution error: %v", err)
			result.Passed = false
		}
		summary.AddResult(result)

		if onEvent != nil {
			onEvent(TestEvent{Type: EventCompleted, Operation: op, Result: &result, Index: i, Total: total})
		}
	}

	return summary
}
