package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/types"
)

func registerDoc(t *testing.T, repo *repository.DocumentRepo, id string, entries []database.IndexEntry) {
	t.Helper()
	index := database.NewMemoryIndex()
	if err := index.Build(entries); err != nil {
		t.Fatalf("Build index for %s: %v", id, err)
	}
	doc := types.Document{
		ID:        id,
		Title:     id,
		Source:    id + ".pdf",
		Kind:      types.DocumentKindPDF,
		CreatedAt: time.Now().Unix(),
	}
	if err := repo.Register(doc, index); err != nil {
		t.Fatalf("Register %s: %v", id, err)
	}
}

func TestRetriever_EmptyScope(t *testing.T) {
	r := NewRetriever(&stubEmbedder{}, repository.NewDocumentRepo())
	if _, err := r.Retrieve(context.Background(), nil, "anything", 4); !errors.Is(err, types.ErrInvalidScope) {
		t.Fatalf("Retrieve with empty scope = %v, want ErrInvalidScope", err)
	}
}

func TestRetriever_NoIndexedDocuments(t *testing.T) {
	repo := repository.NewDocumentRepo()
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "a", Content: "text", DocumentID: "doc1", Source: "doc1.pdf", Vector: hashVector("text")},
	})

	embedder := &stubEmbedder{}
	r := NewRetriever(embedder, repo)

	chunks, err := r.Retrieve(context.Background(), []string{"ghost"}, "query", 4)
	if !errors.Is(err, types.ErrInvalidScope) {
		t.Fatalf("Retrieve over unindexed scope = %v, want ErrInvalidScope", err)
	}
	if chunks != nil {
		t.Errorf("chunks = %v, want none", chunks)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for a scope with no indices", embedder.calls)
	}
}

func TestRetriever_PartiallyIndexedScope(t *testing.T) {
	repo := repository.NewDocumentRepo()
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "a", Content: "alpha text", DocumentID: "doc1", Source: "doc1.pdf", Vector: hashVector("alpha text")},
	})

	r := NewRetriever(&stubEmbedder{}, repo)
	chunks, err := r.Retrieve(context.Background(), []string{"doc1", "ghost"}, "query", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].DocumentID != "doc1" {
		t.Errorf("chunks = %+v, want the indexed document's chunk", chunks)
	}
}

func TestRetriever_FansOutAcrossAllIndices(t *testing.T) {
	repo := repository.NewDocumentRepo()
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "a", Content: "alpha text", DocumentID: "doc1", Source: "doc1.pdf", Vector: []float32{1, 0, 0, 0, 0, 0, 0, 0}},
	})
	registerDoc(t, repo, "doc2", []database.IndexEntry{
		{ID: "b", Content: "beta text", DocumentID: "doc2", Source: "doc2.pdf", Vector: []float32{0, 1, 0, 0, 0, 0, 0, 0}},
	})

	r := NewRetriever(&stubEmbedder{}, repo)
	chunks, err := r.Retrieve(context.Background(), []string{"doc1", "doc2"}, "query", 4)
	if err != nil {
		t.Fatal(err)
	}

	docs := make(map[string]bool)
	for _, c := range chunks {
		docs[c.DocumentID] = true
	}
	if !docs["doc1"] || !docs["doc2"] {
		t.Errorf("expected chunks from both documents, got %v", docs)
	}
}

func TestRetriever_DeduplicatesIdenticalChunks(t *testing.T) {
	repo := repository.NewDocumentRepo()
	shared := "identical chunk text"
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "a", Content: shared, DocumentID: "doc1", Source: "doc1.pdf", Vector: hashVector(shared)},
	})
	registerDoc(t, repo, "doc2", []database.IndexEntry{
		{ID: "b", Content: shared, DocumentID: "doc2", Source: "doc2.pdf", Vector: hashVector(shared)},
	})

	r := NewRetriever(&stubEmbedder{}, repo)
	chunks, err := r.Retrieve(context.Background(), []string{"doc1", "doc2"}, "query", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected duplicate chunk text collapsed to 1, got %d", len(chunks))
	}
}

func TestRetriever_BoundedByK(t *testing.T) {
	repo := repository.NewDocumentRepo()
	entries := make([]database.IndexEntry, 6)
	for i := range entries {
		content := string(rune('a'+i)) + " chunk"
		entries[i] = database.IndexEntry{
			ID: content, Content: content, DocumentID: "doc1", Source: "doc1.pdf", Vector: hashVector(content),
		}
	}
	registerDoc(t, repo, "doc1", entries)

	r := NewRetriever(&stubEmbedder{}, repo)
	chunks, err := r.Retrieve(context.Background(), []string{"doc1"}, "query", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) > 3 {
		t.Errorf("got %d chunks, want at most 3", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Score > chunks[i-1].Score {
			t.Errorf("results not sorted by non-increasing similarity at %d", i)
		}
	}
}

func TestRetriever_SingleDocumentSingleChunk(t *testing.T) {
	repo := repository.NewDocumentRepo()
	content := "Revenue grew 10% in Q1."
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "only", Content: content, DocumentID: "doc1", Source: "report.pdf", Vector: hashVector(content)},
	})

	r := NewRetriever(&stubEmbedder{}, repo)
	chunks, err := r.Retrieve(context.Background(), []string{"doc1"}, "Did revenue grow?", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected the single indexed chunk, got %d", len(chunks))
	}
	if chunks[0].Content != content || chunks[0].DocumentID != "doc1" {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestRetriever_EmbedFailurePropagates(t *testing.T) {
	repo := repository.NewDocumentRepo()
	registerDoc(t, repo, "doc1", []database.IndexEntry{
		{ID: "a", Content: "text", DocumentID: "doc1", Source: "doc1.pdf", Vector: hashVector("text")},
	})

	r := NewRetriever(&stubEmbedder{fail: errUpstreamDown}, repo)
	_, err := r.Retrieve(context.Background(), []string{"doc1"}, "query", 4)
	var svcErr *types.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Retrieve with failing embedder = %v, want ServiceError", err)
	}
}
