package service

import (
	"context"

	"github.com/finsight-ai/finsight-be/types"
)

// AssistantService runs the question-answering pipeline for chat sessions:
// retrieve in-scope chunks, compose a grounded answer, record the turn.
type AssistantService struct {
	retriever    *Retriever
	composer     *Composer
	sessions     *SessionStore
	defaultModel string
}

func NewAssistantService(retriever *Retriever, composer *Composer, sessions *SessionStore, defaultModel string) *AssistantService {
	return &AssistantService{
		retriever:    retriever,
		composer:     composer,
		sessions:     sessions,
		defaultModel: defaultModel,
	}
}

// Ask answers a question against the session's document scope. The turn is
// appended only after the model call succeeds; a failed call leaves the
// session history untouched.
func (s *AssistantService) Ask(ctx context.Context, sessionID, question, model string) (*types.AskResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = s.defaultModel
	}

	chunks, err := s.retriever.Retrieve(ctx, session.DocumentIDs, question, DefaultTopK)
	if err != nil {
		return nil, err
	}

	answer, sources, err := s.composer.Ask(ctx, chunks, question, model)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AppendTurn(sessionID, question, answer, sources); err != nil {
		return nil, err
	}

	return &types.AskResponse{Answer: answer, Sources: sources}, nil
}

// Summarize generates and caches a summary of the session's documents using
// the fixed summarization instruction.
func (s *AssistantService) Summarize(ctx context.Context, sessionID, model string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	if model == "" {
		model = s.defaultModel
	}

	chunks, err := s.retriever.Retrieve(ctx, session.DocumentIDs, DocumentSummaryInstruction, SummaryTopK)
	if err != nil {
		return "", err
	}

	summary, _, err := s.composer.Ask(ctx, chunks, DocumentSummaryInstruction, model)
	if err != nil {
		return "", err
	}

	if err := s.sessions.SetSummary(sessionID, summary); err != nil {
		return "", err
	}
	return summary, nil
}
