package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"medclaim/internal/domain"
)

// DecodeObject parses model output that should be a single JSON object.
// Surrounding markdown code fences are tolerated.
func DecodeObject(provider, text string) (map[string]any, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, &domain.MalformedResponseError{Provider: provider, Raw: text, Err: fmt.Errorf("empty output")}
	}

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, &domain.MalformedResponseError{Provider: provider, Raw: text, Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &domain.MalformedResponseError{Provider: provider, Raw: text, Err: fmt.Errorf("expected a JSON object, got %T", v)}
	}
	return obj, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop an optional language tag on the opening fence line
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		if tag := strings.TrimSpace(s[:i]); tag == "" || !strings.ContainsAny(tag, "{[") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
