package llm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medclaim/internal/domain"
	"medclaim/internal/llm"
)

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{name: "plain", text: `{"hospital_name":"City Hospital","total_amount":120.5}`, want: map[string]any{"hospital_name": "City Hospital", "total_amount": 120.5}},
		{name: "fenced with tag", text: "```json\n{\"diagnosis\":null}\n```", want: map[string]any{"diagnosis": nil}},
		{name: "fenced without tag", text: "```\n{\"a\":\"b\"}\n```", want: map[string]any{"a": "b"}},
		{name: "surrounding whitespace", text: "  \n{}\n ", want: map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := llm.DecodeObject("gemini", tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeObject_Malformed(t *testing.T) {
	for _, text := range []string{"", "not json", `["a","b"]`, `"bill"`, `{"a":`} {
		_, err := llm.DecodeObject("gemini", text)

		var malformed *domain.MalformedResponseError
		require.True(t, errors.As(err, &malformed), "input %q", text)
		assert.Equal(t, "gemini", malformed.Provider)
	}
}
