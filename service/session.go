package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finsight-ai/finsight-be/types"
	"github.com/google/uuid"
)

// ErrSessionNotFound reports an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore tracks chat sessions for the process lifetime. It is created
// once at startup, passed to every component that needs it, and cleared only
// by an explicit Reset (logout). Turns are an append-only log; there is no
// edit or delete.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*types.Session),
	}
}

// CreateSession binds a document scope to a new session. An empty scope is
// rejected: a session with nothing to retrieve from can never answer.
func (s *SessionStore) CreateSession(documentIDs []string, label string) (*types.Session, error) {
	if len(documentIDs) == 0 {
		return nil, types.ErrInvalidScope
	}

	session := &types.Session{
		ID:          uuid.NewString(),
		Label:       label,
		DocumentIDs: append([]string(nil), documentIDs...),
		CreatedAt:   time.Now().Unix(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return copySession(session), nil
}

func (s *SessionStore) Get(id string) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return copySession(session), nil
}

// AppendTurn records a completed Q&A exchange. Turns keep strict call order.
func (s *SessionStore) AppendTurn(id, question, answer string, sources []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.Turns = append(session.Turns, types.QATurn{
		Question: question,
		Answer:   answer,
		Sources:  append([]string(nil), sources...),
		AskedAt:  time.Now().Unix(),
	})
	return nil
}

func (s *SessionStore) SetSummary(id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.Summary = summary
	return nil
}

func (s *SessionStore) GetSummary(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session.Summary, nil
}

// ListSessions returns all sessions ordered by creation time, then ID.
func (s *SessionStore) ListSessions() []types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, *copySession(session))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ExportChat renders a session's history as plain text, one "{Role}: {content}"
// record per turn separated by blank lines.
func (s *SessionStore) ExportChat(id string) (string, error) {
	session, err := s.Get(id)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, turn := range session.Turns {
		fmt.Fprintf(&b, "User: %s\n\n", turn.Question)
		fmt.Fprintf(&b, "Assistant: %s\n\n", turn.Answer)
	}
	return b.String(), nil
}

// Reset discards every session. Destructive and non-recoverable, used on
// logout.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	s.sessions = make(map[string]*types.Session)
	s.mu.Unlock()
}

// copySession returns a deep enough copy that callers cannot mutate store
// state through the returned pointer.
func copySession(in *types.Session) *types.Session {
	out := *in
	out.DocumentIDs = append([]string(nil), in.DocumentIDs...)
	out.Turns = append([]types.QATurn(nil), in.Turns...)
	return &out
}
