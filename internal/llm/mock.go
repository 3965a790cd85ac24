package llm

import "context"

// MockClient is a Client for tests. CompleteFunc overrides the canned
// Reply when set.
type MockClient struct {
	Reply        string
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	Calls   int
	Prompts []string
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return m.Reply, nil
}
