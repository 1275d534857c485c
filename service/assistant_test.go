package service

import (
	"context"
	"errors"
	"testing"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/types"
)

func newAssistantFixture(t *testing.T, llm *stubLLM) (*AssistantService, *SessionStore, string) {
	t.Helper()
	repo := repository.NewDocumentRepo()
	content := "Revenue grew 10% in Q1."
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "doc1-0", Content: content, DocumentID: "doc1", Source: "report.pdf", Vector: hashVector(content)},
	})

	sessions := NewSessionStore()
	session, err := sessions.CreateSession([]string{"doc1"}, "Q1 review")
	if err != nil {
		t.Fatal(err)
	}

	retriever := NewRetriever(&stubEmbedder{}, repo)
	assistant := NewAssistantService(retriever, NewComposer(llm), sessions, "llama3-8b-8192")
	return assistant, sessions, session.ID
}

func TestAssistant_AskRecordsTurn(t *testing.T) {
	llm := &stubLLM{answer: "- Yes, revenue grew 10% in Q1."}
	assistant, sessions, sessionID := newAssistantFixture(t, llm)

	resp, err := assistant.Ask(context.Background(), sessionID, "Did revenue grow?", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "- Yes, revenue grew 10% in Q1." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "doc1" {
		t.Errorf("sources = %v", resp.Sources)
	}
	if llm.lastModel != "llama3-8b-8192" {
		t.Errorf("default model not applied, got %q", llm.lastModel)
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(session.Turns))
	}
	if session.Turns[0].Question != "Did revenue grow?" || session.Turns[0].Answer != resp.Answer {
		t.Errorf("recorded turn = %+v", session.Turns[0])
	}
}

func TestAssistant_FailedAskLeavesSessionUntouched(t *testing.T) {
	llm := &stubLLM{answer: "ok"}
	assistant, sessions, sessionID := newAssistantFixture(t, llm)

	if _, err := assistant.Ask(context.Background(), sessionID, "First question?", ""); err != nil {
		t.Fatal(err)
	}

	llm.fail = errUpstreamDown
	_, err := assistant.Ask(context.Background(), sessionID, "Second question?", "")
	var svcErr *types.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want ServiceError", err)
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Turns) != 1 {
		t.Fatalf("failed ask must not append a turn, got %d turns", len(session.Turns))
	}
	if session.Turns[0].Question != "First question?" {
		t.Errorf("surviving turn = %+v", session.Turns[0])
	}
}

func TestAssistant_UnindexedScopeRecordsNothing(t *testing.T) {
	llm := &stubLLM{answer: "No content available."}
	assistant, sessions, _ := newAssistantFixture(t, llm)

	// The store accepts any non-empty ID list; only retrieval knows the
	// scope was never indexed.
	session, err := sessions.CreateSession([]string{"never-ingested"}, "empty scope")
	if err != nil {
		t.Fatal(err)
	}

	_, err = assistant.Ask(context.Background(), session.ID, "Did revenue grow?", "")
	if !errors.Is(err, types.ErrInvalidScope) {
		t.Fatalf("Ask over unindexed scope = %v, want ErrInvalidScope", err)
	}
	if llm.calls != 0 {
		t.Errorf("model called %d times with nothing to ground on", llm.calls)
	}

	got, err := sessions.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Turns) != 0 {
		t.Errorf("ungrounded turn recorded: %+v", got.Turns)
	}
}

func TestAssistant_AskUnknownSession(t *testing.T) {
	assistant, _, _ := newAssistantFixture(t, &stubLLM{answer: "ok"})
	if _, err := assistant.Ask(context.Background(), "no-such-session", "Question?", ""); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestAssistant_SummarizeCachesSummary(t *testing.T) {
	llm := &stubLLM{answer: "- Strong quarter overall."}
	assistant, sessions, sessionID := newAssistantFixture(t, llm)

	summary, err := assistant.Summarize(context.Background(), sessionID, "llama3-70b-8192")
	if err != nil {
		t.Fatal(err)
	}
	if summary != "- Strong quarter overall." {
		t.Errorf("summary = %q", summary)
	}
	if llm.lastModel != "llama3-70b-8192" {
		t.Errorf("model = %q", llm.lastModel)
	}

	cached, err := sessions.GetSummary(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if cached != summary {
		t.Errorf("cached summary = %q, want %q", cached, summary)
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Turns) != 0 {
		t.Errorf("summarize must not append chat turns, got %d", len(session.Turns))
	}
}
