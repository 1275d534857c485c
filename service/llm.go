package service

import (
	"context"
	"errors"
	"time"

	"github.com/finsight-ai/finsight-be/types"
	"github.com/sashabaranov/go-openai"
)

// GroqService talks to the Groq chat completion endpoint through its
// OpenAI-compatible API.
type GroqService struct {
	client  *openai.Client
	apiKey  string
	timeout time.Duration
}

func NewGroqService(baseURL, apiKey string, timeout time.Duration) *GroqService {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &GroqService{
		client:  openai.NewClientWithConfig(config),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

func (s *GroqService) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if s.apiKey == "" {
		return "", &types.ConfigError{Key: "GROQ_API_KEY"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
		},
	)
	if err != nil {
		return "", &types.ServiceError{Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &types.ServiceError{Op: "chat completion", Err: errors.New("no response generated")}
	}

	return resp.Choices[0].Message.Content, nil
}
