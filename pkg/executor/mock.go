package executor

import "context"

// MockExecutor is a mock implementation of Executor for testing.
type MockExecutor struct {
	CombinedOutputFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
	Calls              [][]string
}

func (m *MockExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, append([]string{name}, args...))
	if m.CombinedOutputFunc != nil {
		return m.CombinedOutputFunc(ctx, name, args...)
	}
	return []byte{}, nil
}
