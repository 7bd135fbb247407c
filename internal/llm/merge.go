package llm

import (
	"context"
	"fmt"
	"sync"

	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/schema"
)

// MergeBackend wraps two backends. Structured calls run on both in parallel and
// the results are merged field by field; text calls go to the primary and fall
// back to the secondary.
type MergeBackend struct {
	primary   port.LLMBackend
	secondary port.LLMBackend
	log       logger.Logger
}

// NewMergeBackend creates a MergeBackend from primary and secondary backends.
func NewMergeBackend(primary, secondary port.LLMBackend, log logger.Logger) *MergeBackend {
	if log == nil {
		log = logger.NewNop()
	}
	return &MergeBackend{primary: primary, secondary: secondary, log: log.Named("llm.merge")}
}

func (m *MergeBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := m.primary.GenerateText(ctx, prompt)
	if err == nil {
		return out, nil
	}
	m.log.Warn("llm.merge.primary_text_failed", logger.Err(err))
	out, sErr := m.secondary.GenerateText(ctx, prompt)
	if sErr != nil {
		return "", fmt.Errorf("both backends failed: primary: %v; secondary: %w", err, sErr)
	}
	return out, nil
}

func (m *MergeBackend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	type result struct {
		out map[string]any
		err error
	}

	var wg sync.WaitGroup
	primaryCh := make(chan result, 1)
	secondaryCh := make(chan result, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.GenerateStructuredJSON(ctx, prompt, obj)
		primaryCh <- result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.GenerateStructuredJSON(ctx, prompt, obj)
		secondaryCh <- result{out, err}
	}()

	wg.Wait()
	close(primaryCh)
	close(secondaryCh)

	pResult := <-primaryCh
	sResult := <-secondaryCh

	// An output that does not type-check is as good as a failure.
	if pResult.err == nil {
		if err := obj.Validate(pResult.out); err != nil {
			pResult = result{err: err}
		}
	}
	if sResult.err == nil {
		if err := obj.Validate(sResult.out); err != nil {
			sResult = result{err: err}
		}
	}

	switch {
	case pResult.err != nil && sResult.err != nil:
		return nil, fmt.Errorf("both backends failed: primary: %v; secondary: %w", pResult.err, sResult.err)
	case pResult.err != nil:
		m.log.Warn("llm.merge.secondary_only", logger.String("schema", obj.Name), logger.Err(pResult.err))
		return sResult.out, nil
	case sResult.err != nil:
		m.log.Warn("llm.merge.primary_only", logger.String("schema", obj.Name), logger.Err(sResult.err))
		return pResult.out, nil
	}

	merged, provenance := mergeObjects(pResult.out, sResult.out, obj)
	m.log.Debug("llm.merge.done", logger.String("schema", obj.Name), logger.Any("provenance", provenance))
	return merged, nil
}

// mergeObjects keeps primary values and fills fields the primary left empty
// from the secondary. It returns which side each schema field came from.
func mergeObjects(primary, secondary map[string]any, obj *schema.Object) (map[string]any, map[string]string) {
	merged := make(map[string]any, len(primary))
	for k, v := range primary {
		merged[k] = v
	}

	provenance := make(map[string]string, len(obj.Fields))
	for _, name := range obj.FieldNames() {
		pVal, sVal := primary[name], secondary[name]
		switch {
		case isEmpty(pVal) && isEmpty(sVal):
			provenance[name] = "none"
		case isEmpty(pVal):
			merged[name] = sVal
			provenance[name] = "secondary"
		case isEmpty(sVal):
			provenance[name] = "primary"
		case fmt.Sprint(pVal) == fmt.Sprint(sVal):
			provenance[name] = "agree"
		default:
			provenance[name] = "disagreement"
		}
	}
	return merged, provenance
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
