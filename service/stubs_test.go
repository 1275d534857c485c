package service

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/finsight-ai/finsight-be/types"
)

// stubEmbedder produces deterministic vectors from text content so retrieval
// tests run with zero network dependency.
type stubEmbedder struct {
	calls int
	fail  error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

// hashVector maps text to a unit-ish 8-dim vector; identical text always
// maps to the identical vector.
func hashVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()
	vec := make([]float32, 8)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(seed%1000) / 1000.0
	}
	return vec
}

// stubLLM returns a canned answer or a canned failure.
type stubLLM struct {
	answer string
	fail   error
	calls  int

	lastModel  string
	lastSystem string
	lastPrompt string
}

func (s *stubLLM) Complete(_ context.Context, model, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastModel = model
	s.lastSystem = systemPrompt
	s.lastPrompt = userPrompt
	if s.fail != nil {
		return "", s.fail
	}
	return s.answer, nil
}

var errUpstreamDown = &types.ServiceError{Op: "test", Err: errors.New("upstream down")}
