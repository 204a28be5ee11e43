package gitrepos

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// MockExecutor records commands and returns stubbed responses. It is
// exported for use in integration tests.
type MockExecutor struct {
	responses []stubResponse
	calls     []ExecutorCall
}

type stubResponse struct {
	prefix string
	output []byte
	err    error
}

// ExecutorCall records a command invocation.
type ExecutorCall struct {
	Dir  string
	Name string
	Args []string
}

// NewMockExecutor creates a new mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// AddResponse stubs a response for the next command whose full command line
// starts with the given prefix. Each stub is consumed once.
func (m *MockExecutor) AddResponse(prefix string, output []byte, err error) {
	m.responses = append(m.responses, stubResponse{prefix: prefix, output: output, err: err})
}

// Run records the invocation and returns the first matching stub.
func (m *MockExecutor) Run(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, ExecutorCall{Dir: dir, Name: name, Args: args})

	fullCmd := name + " " + strings.Join(args, " ")
	for i, resp := range m.responses {
		if strings.HasPrefix(fullCmd, resp.prefix) {
			m.responses = append(m.responses[:i], m.responses[i+1:]...)
			return resp.output, resp.err
		}
	}

	return nil, errors.New("no mock response configured for: " + fullCmd)
}

// Calls returns all recorded command invocations.
func (m *MockExecutor) Calls() []ExecutorCall {
	return m.calls
}

// MustLastCall returns the last recorded call, failing the test if no calls
// were made.
func (m *MockExecutor) MustLastCall(t *testing.T) ExecutorCall {
	t.Helper()
	if len(m.calls) == 0 {
		t.Fatal("expected at least one command call")
	}
	return m.calls[len(m.calls)-1]
}
