package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medclaim/internal/domain"
)

// MockDocumentClassifier is a mock implementation of port.DocumentClassifier.
type MockDocumentClassifier struct {
	mock.Mock
}

func (m *MockDocumentClassifier) Classify(ctx context.Context, text, filename string) domain.DocumentType {
	args := m.Called(ctx, text, filename)
	return args.Get(0).(domain.DocumentType)
}

// MockBillFieldExtractor is a mock implementation of port.BillFieldExtractor.
type MockBillFieldExtractor struct {
	mock.Mock
}

func (m *MockBillFieldExtractor) Extract(ctx context.Context, text string) domain.BillData {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.BillData)
}

// MockDischargeFieldExtractor is a mock implementation of port.DischargeFieldExtractor.
type MockDischargeFieldExtractor struct {
	mock.Mock
}

func (m *MockDischargeFieldExtractor) Extract(ctx context.Context, text string) domain.DischargeSummaryData {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.DischargeSummaryData)
}
