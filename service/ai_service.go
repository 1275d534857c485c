package service

import (
	"context"
)

// EmbeddingService converts text into fixed-dimension vectors, one vector per
// input in the same order. Failed calls return nothing: partial results are
// discarded, never applied.
type EmbeddingService interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageModelService generates a completion for a grounded prompt using the
// named model.
type LanguageModelService interface {
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}
