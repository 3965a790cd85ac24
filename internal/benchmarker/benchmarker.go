package benchmarker

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/phillipboles/aci-contract/internal/models"
	"github.com/phillipboles/aci-contract/internal/parser"
	"github.com/phillipboles/aci-contract/internal/tester"
)

// EventType classifies a live benchmark event.
type EventType int

const (
	// EventWarmupStarting indicates warmup phase is starting for an endpoint
	EventWarmupStarting EventType = iota
	// EventWarmupProgress indicates warmup progress
	EventWarmupProgress
	// EventWarmupCompleted indicates warmup phase completed
	EventWarmupCompleted
	// EventBenchmarkStarting indicates benchmark is starting for an endpoint
	EventBenchmarkStarting
	// EventBenchmarkProgress indicates benchmark progress (periodic updates)
	EventBenchmarkProgress
	// EventBenchmarkCompleted indicates benchmark completed for an endpoint
	EventBenchmarkCompleted
)

// BenchmarkEvent is one event during benchmark execution.
type BenchmarkEvent struct {
	Type      EventType
	Operation models.Operation
	Result    *models.BenchmarkResult // nil until completed
	Index     int                     // current endpoint index (0-based)
	Total     int                     // total number of endpoints
	Progress  int                     // current iteration count
	MaxIter   int                     // max iterations for this phase

	// Running stats, filled on progress events.
	RunningAvg    time.Duration
	RunningReqSec float64
	ErrorCount    int
}

// OnBenchmarkEvent is a callback for live benchmark events.
type OnBenchmarkEvent func(event BenchmarkEvent)

// Config holds benchmark configuration.
type Config struct {
	Iterations       int           // Number of requests per endpoint
	Concurrency      int           // Number of concurrent workers
	WarmupRuns       int           // Number of warmup iterations (discarded)
	RateLimit        float64       // Max requests per second (0 = unlimited)
	Timeout          time.Duration // Per-request timeout
	DisableKeepAlive bool          // Disable HTTP connection reuse
}

// DefaultConfig returns the default benchmark configuration.
func DefaultConfig() Config {
	return Config{
		Iterations:       100,
		Concurrency:      1,
		WarmupRuns:       5,
		RateLimit:        0,
		Timeout:          30 * time.Second,
		DisableKeepAlive: false,
	}
}

// Benchmarker runs load against the operations of one specification
// document.
type Benchmarker struct {
	config         Config
	parser         *parser.Parser
	requestBuilder *tester.RequestBuilder
	client         *http.Client
	limiter        *rate.Limiter
}

// NewBenchmarker builds a benchmarker for one document.
func NewBenchmarker(p *parser.Parser, config Config) *Benchmarker {
	transport := &http.Transport{
		DisableKeepAlives:   config.DisableKeepAlive,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: config.Concurrency,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	client := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := int(config.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &Benchmarker{
		config:         config,
		parser:         p,
		requestBuilder: tester.NewRequestBuilder(p),
		client:         client,
		limiter:        limiter,
	}
}

// requestResult holds the result of a single request.
type requestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      string
}

// BenchmarkOperation benchmarks a single operation: optional warmup, then
// the measured run.
func (b *Benchmarker) BenchmarkOperation(
	ctx context.Context,
	op models.Operation,
	onEvent OnBenchmarkEvent,
	index, total int,
) (models.BenchmarkResult, error) {
	result := models.BenchmarkResult{
		Path:        op.Path,
		Method:      op.Method,
		OperationID: op.OperationID,
		Iterations:  b.config.Iterations,
		Concurrency: b.config.Concurrency,
		WarmupRuns:  b.config.WarmupRuns,
		StatusCodes: make(map[int]int),
	}

	opDetails, err := b.parser.OperationDetails(op.Path, op.Method)
	if err != nil {
		return result, fmt.Errorf("failed to get operation details: %w", err)
	}

	// Build one request up front so an unbuildable operation fails fast.
	if _, err := b.requestBuilder.BuildRequest(opDetails, op.ServerURL); err != nil {
		return result, fmt.Errorf("failed to build request: %w", err)
	}

	if b.config.WarmupRuns > 0 && onEvent != nil {
		onEvent(BenchmarkEvent{
			Type:      EventWarmupStarting,
			Operation: op,
			Index:     index,
			Total:     total,
			MaxIter:   b.config.WarmupRuns,
		})
	}

	// Warmup is single-threaded and collects no stats.
	for i := 0; i < b.config.WarmupRuns; i++ {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		b.executeRequest(ctx, opDetails, op.ServerURL)

		if onEvent != nil && (i+1)%max(1, b.config.WarmupRuns/5) == 0 {
			onEvent(BenchmarkEvent{
				Type:      EventWarmupProgress,
				Operation: op,
				Index:     index,
				Total:     total,
				Progress:  i + 1,
				MaxIter:   b.config.WarmupRuns,
			})
		}
	}

	if b.config.WarmupRuns > 0 && onEvent != nil {
		onEvent(BenchmarkEvent{
			Type:      EventWarmupCompleted,
			Operation: op,
			Index:     index,
			Total:     total,
		})
	}

	if onEvent != nil {
		onEvent(BenchmarkEvent{
			Type:      EventBenchmarkStarting,
			Operation: op,
			Index:     index,
			Total:     total,
			MaxIter:   b.config.Iterations,
		})
	}

	startTime := time.Now()
	results := b.runConcurrentBenchmark(ctx, opDetails, op.ServerURL, onEvent, op, index, total)
	result.TotalDuration = time.Since(startTime)

	result = b.processResults(result, results)

	if onEvent != nil {
		onEvent(BenchmarkEvent{
			Type:      EventBenchmarkCompleted,
			Operation: op,
			Result:    &result,
			Index:     index,
			Total:     total,
		})
	}

	return result, nil
}

// runConcurrentBenchmark fans the iterations out over a worker pool.
func (b *Benchmarker) runConcurrentBenchmark(
	ctx context.Context,
	opDetails *parser.OperationDetails,
	serverURL string,
	onEvent OnBenchmarkEvent,
	op models.Operation,
	index, total int,
) []requestResult {
	results := make([]requestResult, b.config.Iterations)
	jobs := make(chan int, b.config.Iterations)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var completed int
	var totalDuration time.Duration
	var errorCount int

	// ~5% intervals
	progressInterval := max(1, b.config.Iterations/20)
	runStart := time.Now()

	for w := 0; w < b.config.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}

				if b.limiter != nil {
					b.limiter.Wait(ctx)
				}

				res := b.executeRequest(ctx, opDetails, serverURL)
				results[i] = res

				mu.Lock()
				completed++
				totalDuration += res.Duration
				if res.Error != "" {
					errorCount++
				}
				currentCompleted := completed
				currentTotalDuration := totalDuration
				currentErrorCount := errorCount
				mu.Unlock()

				if onEvent != nil && currentCompleted%progressInterval == 0 {
					avgDuration := currentTotalDuration / time.Duration(currentCompleted)
					var reqsPerSec float64
					if elapsed := time.Since(runStart); elapsed > 0 {
						reqsPerSec = float64(currentCompleted) / elapsed.Seconds()
					}

					onEvent(BenchmarkEvent{
						Type:          EventBenchmarkProgress,
						Operation:     op,
						Index:         index,
						Total:         total,
						Progress:      currentCompleted,
						MaxIter:       b.config.Iterations,
						RunningAvg:    avgDuration,
						RunningReqSec: reqsPerSec,
						ErrorCount:    currentErrorCount,
					})
				}
			}
		}()
	}

	for i := 0; i < b.config.Iterations; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// executeRequest sends one request and records only timing and status.
func (b *Benchmarker) executeRequest(
	ctx context.Context,
	opDetails *parser.OperationDetails,
	serverURL string,
) requestResult {
	result := requestResult{}

	req, err := b.requestBuilder.BuildRequest(opDetails, serverURL)
	if err != nil {
		result.Error = fmt.Sprintf("build request failed: %v", err)
		return result
	}

	req = req.WithContext(ctx)

	startTime := time.Now()
	resp, err := b.client.Do(req)
	result.Duration = time.Since(startTime)

	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	return result
}

// processResults turns raw per-request results into the summary stats.
// Timing stats come from successful requests only.
func (b *Benchmarker) processResults(result models.BenchmarkResult, rawResults []requestResult) models.BenchmarkResult {
	if len(rawResults) == 0 {
		return result
	}

	var durations []time.Duration
	var totalDuration time.Duration
	errorSet := make(map[string]bool)

	for _, r := range rawResults {
		if r.Error != "" {
			result.ErrorCount++
			if len(result.SampleErrors) < 5 && !errorSet[r.Error] {
				result.SampleErrors = append(result.SampleErrors, r.Error)
				errorSet[r.Error] = true
			}
		} else {
			result.SuccessCount++
			durations = append(durations, r.Duration)
			totalDuration += r.Duration
		}

		if r.StatusCode > 0 {
			result.StatusCodes[r.StatusCode]++
		}
	}

	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool {
			return durations[i] < durations[j]
		})

		result.MinTime = durations[0]
		result.MaxTime = durations[len(durations)-1]
		result.AvgTime = totalDuration / time.Duration(len(durations))
		result.P50Time = percentile(durations, 50)
		result.P90Time = percentile(durations, 90)
		result.P99Time = percentile(durations, 99)
	}

	if result.TotalDuration > 0 {
		result.RequestsPerSec = float64(result.Iterations) / result.TotalDuration.Seconds()
	}

	if result.Iterations > 0 {
		result.ErrorRate = float64(result.ErrorCount) / float64(result.Iterations) * 100
	}

	return result
}

// percentile interpolates the p-th percentile from sorted durations.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * float64(p) / 100.0
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}

// BenchmarkOperations benchmarks a list of operations sequentially with
// live event reporting.
func (b *Benchmarker) BenchmarkOperations(
	ctx context.Context,
	operations []models.Operation,
	onEvent OnBenchmarkEvent,
) models.BenchmarkSummary {
	summary := models.BenchmarkSummary{
		Iterations:  b.config.Iterations,
		Concurrency: b.config.Concurrency,
		WarmupRuns:  b.config.WarmupRuns,
		Results:     make([]models.BenchmarkResult, 0, len(operations)),
	}

	startTime := time.Now()

	for i, op := range operations {
		if ctx.Err() != nil {
			break
		}

		result, err := b.BenchmarkOperation(ctx, op, onEvent, i, len(operations))
		if err != nil {
			result.SampleErrors = append(result.SampleErrors, err.Error())
			result.ErrorCount = result.Iterations
			result.ErrorRate = 100
		}
		summary.AddResult(result)
	}

	summary.Finalize(time.Since(startTime))
	return summary
}
