package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medclaim/internal/llm"
	"medclaim/internal/schema"
	"medclaim/mocks"
)

func billObject() *schema.Object {
	return schema.NewObject("bill",
		schema.Field{Name: "hospital_name", Type: schema.TypeString},
		schema.Field{Name: "total_amount", Type: schema.TypeNumber},
		schema.Field{Name: "date_of_service", Type: schema.TypeString, Format: "date"},
	)
}

func TestMergeBackend_FillsNullsFromSecondary(t *testing.T) {
	obj := billObject()
	primary := new(mocks.MockLLMBackend)
	secondary := new(mocks.MockLLMBackend)
	primary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(map[string]any{
		"hospital_name": "City Hospital", "total_amount": nil, "date_of_service": "",
	}, nil)
	secondary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(map[string]any{
		"hospital_name": "City Hosp.", "total_amount": 1250.5, "date_of_service": "2024-01-10",
	}, nil)

	out, err := llm.NewMergeBackend(primary, secondary, nil).GenerateStructuredJSON(context.Background(), "p", obj)

	require.NoError(t, err)
	assert.Equal(t, "City Hospital", out["hospital_name"])
	assert.Equal(t, 1250.5, out["total_amount"])
	assert.Equal(t, "2024-01-10", out["date_of_service"])
}

func TestMergeBackend_InvalidPrimaryUsesSecondary(t *testing.T) {
	obj := billObject()
	primary := new(mocks.MockLLMBackend)
	secondary := new(mocks.MockLLMBackend)
	primary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(map[string]any{"total_amount": "lots"}, nil)
	secondary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(map[string]any{"total_amount": 99.0}, nil)

	out, err := llm.NewMergeBackend(primary, secondary, nil).GenerateStructuredJSON(context.Background(), "p", obj)

	require.NoError(t, err)
	assert.Equal(t, 99.0, out["total_amount"])
}

func TestMergeBackend_SecondaryFailsUsesPrimary(t *testing.T) {
	obj := billObject()
	primary := new(mocks.MockLLMBackend)
	secondary := new(mocks.MockLLMBackend)
	primary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(map[string]any{"hospital_name": "A"}, nil)
	secondary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(nil, errors.New("timeout"))

	out, err := llm.NewMergeBackend(primary, secondary, nil).GenerateStructuredJSON(context.Background(), "p", obj)

	require.NoError(t, err)
	assert.Equal(t, "A", out["hospital_name"])
}

func TestMergeBackend_BothFail(t *testing.T) {
	obj := billObject()
	primary := new(mocks.MockLLMBackend)
	secondary := new(mocks.MockLLMBackend)
	primary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(nil, errors.New("p down"))
	secondary.On("GenerateStructuredJSON", mock.Anything, "p", obj).Return(nil, errors.New("s down"))

	_, err := llm.NewMergeBackend(primary, secondary, nil).GenerateStructuredJSON(context.Background(), "p", obj)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "both backends failed")
}

func TestMergeBackend_TextFallsBackToSecondary(t *testing.T) {
	primary := new(mocks.MockLLMBackend)
	secondary := new(mocks.MockLLMBackend)
	primary.On("GenerateText", mock.Anything, "p").Return("", errors.New("down"))
	secondary.On("GenerateText", mock.Anything, "p").Return("discharge_summary", nil)

	out, err := llm.NewMergeBackend(primary, secondary, nil).GenerateText(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "discharge_summary", out)
}
