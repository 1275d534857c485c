package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/finsight-ai/finsight-be/types"
	"github.com/finsight-ai/finsight-be/utils"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	embedMaxAttempts = 3
	embedRetryBase   = 500 * time.Millisecond
)

// GeminiEmbedding embeds text with the Gemini embedding API.
type GeminiEmbedding struct {
	apiKey  string
	model   string
	timeout time.Duration

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiEmbedding(apiKey, model string, timeout time.Duration) *GeminiEmbedding {
	return &GeminiEmbedding{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// Embed returns one vector per input text, in input order. A missing API key
// fails before any network traffic. Transient upstream failures are retried
// with backoff; a final failure discards the whole batch, no partial result
// is ever returned.
func (s *GeminiEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.apiKey == "" {
		return nil, &types.ConfigError{Key: "GEMINI_API_KEY"}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, &types.ServiceError{Op: "embed", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	em := client.EmbeddingModel(s.model)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	var resp *genai.BatchEmbedContentsResponse
	for attempt := 0; attempt < embedMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &types.ServiceError{Op: "embed", Err: ctx.Err()}
			case <-time.After(utils.CalculateBackoff(embedRetryBase, attempt)):
			}
		}
		resp, err = em.BatchEmbedContents(ctx, batch)
		if err == nil || !retryableEmbedError(err) {
			break
		}
	}
	if err != nil {
		return nil, &types.ServiceError{Op: "embed", Err: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &types.ServiceError{
			Op:  "embed",
			Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// retryableEmbedError reports whether a failed embedding call is worth
// retrying. Rate limits and server errors are transient; any other 4xx
// (bad key, malformed request) will fail the same way every time.
// Errors without an API status, like network timeouts, are retried.
func retryableEmbedError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

// getClient creates the API client lazily so a misconfigured service fails
// with ConfigError instead of at startup.
func (s *GeminiEmbedding) getClient(ctx context.Context) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}
