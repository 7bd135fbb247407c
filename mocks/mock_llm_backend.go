package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medclaim/internal/schema"
)

// MockLLMBackend is a mock implementation of port.LLMBackend.
type MockLLMBackend struct {
	mock.Mock
}

func (m *MockLLMBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMBackend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	args := m.Called(ctx, prompt, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
