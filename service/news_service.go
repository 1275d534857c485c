package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/types"
	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"
)

// NewsTopK is the retrieval depth for news question answering.
const NewsTopK = 5

// NewsSummaryTopK is the deeper retrieval used for the news digest.
const NewsSummaryTopK = 6

// NewsService ingests news article URLs into a single persistent vector
// index and answers questions over it. The index survives restarts through
// Persist/Load; the Q&A history does not.
type NewsService struct {
	index    *database.MemoryIndex
	indexDir string
	chunker  *Chunker
	embedder EmbeddingService
	composer *Composer
	client   *http.Client

	mu      sync.Mutex
	history []types.QATurn
	summary string
}

func NewNewsService(indexDir string, chunker *Chunker, embedder EmbeddingService, composer *Composer, timeout time.Duration) *NewsService {
	return &NewsService{
		index:    database.NewMemoryIndex(),
		indexDir: indexDir,
		chunker:  chunker,
		embedder: embedder,
		composer: composer,
		client:   &http.Client{Timeout: timeout},
	}
}

// LoadIndex restores a previously persisted news index. A missing index is
// not an error, just an empty start.
func (s *NewsService) LoadIndex() error {
	err := s.currentIndex().Load(s.indexDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ProcessURLs fetches each URL, extracts the article text, and indexes the
// chunks. Per-URL failures do not abort the batch; they are reported through
// a PartialIngestError returned alongside the successfully ingested
// documents. The index is only extended, and then persisted, after every
// successful article has been embedded.
func (s *NewsService) ProcessURLs(ctx context.Context, urls []string) ([]types.Document, error) {
	if len(urls) == 0 {
		return nil, types.ErrEmptyInput
	}

	failed := make(map[string]error)
	var docs []types.Document
	var entries []database.IndexEntry
	var pending []pendingArticle

	for _, raw := range urls {
		article, err := s.fetchArticle(ctx, raw)
		if err != nil {
			failed[raw] = err
			continue
		}
		chunks := s.chunker.Split(article.text)
		if len(chunks) == 0 {
			failed[raw] = types.ErrEmptyInput
			continue
		}
		pending = append(pending, pendingArticle{url: raw, title: article.title, chunks: chunks})
	}

	if len(pending) == 0 {
		return nil, &types.PartialIngestError{Failed: failed}
	}

	// One embedding call per batch; a failure here discards everything so
	// the index is never partially extended.
	var texts []string
	for _, art := range pending {
		texts = append(texts, art.chunks...)
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	offset := 0
	now := time.Now().Unix()
	for _, art := range pending {
		doc := types.Document{
			ID:         uuid.NewString(),
			Title:      art.title,
			Source:     art.url,
			Kind:       types.DocumentKindNews,
			ChunkCount: len(art.chunks),
			CreatedAt:  now,
		}
		for i, chunk := range art.chunks {
			entries = append(entries, database.IndexEntry{
				ID:         fmt.Sprintf("%s-%d", doc.ID, i),
				Content:    chunk,
				DocumentID: doc.ID,
				Source:     art.url,
				Vector:     vectors[offset+i],
			})
		}
		offset += len(art.chunks)
		docs = append(docs, doc)
	}

	index := s.currentIndex()
	if err := index.Extend(entries); err != nil {
		return nil, err
	}
	if err := index.Persist(s.indexDir); err != nil {
		log.Printf("Warning: failed to persist news index: %v", err)
	}

	if len(failed) > 0 {
		return docs, &types.PartialIngestError{Failed: failed}
	}
	return docs, nil
}

// Ask answers a question over the indexed articles and appends the exchange
// to the news Q&A history. A failed model call records nothing.
func (s *NewsService) Ask(ctx context.Context, question, model string) (*types.AskResponse, error) {
	chunks, err := s.retrieve(ctx, question, NewsTopK)
	if err != nil {
		return nil, err
	}

	answer, _, err := s.composer.Ask(ctx, chunks, question, model)
	if err != nil {
		return nil, err
	}

	// Cite article URLs rather than internal document IDs.
	sources := newsSources(chunks)

	s.mu.Lock()
	s.history = append(s.history, types.QATurn{
		Question: question,
		Answer:   answer,
		Sources:  sources,
		AskedAt:  time.Now().Unix(),
	})
	s.mu.Unlock()

	return &types.AskResponse{Answer: answer, Sources: sources}, nil
}

// Summarize generates and caches a digest of every indexed article.
func (s *NewsService) Summarize(ctx context.Context, model string) (string, error) {
	chunks, err := s.retrieve(ctx, NewsSummaryInstruction, NewsSummaryTopK)
	if err != nil {
		return "", err
	}

	summary, _, err := s.composer.Ask(ctx, chunks, NewsSummaryInstruction, model)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return summary, nil
}

func (s *NewsService) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *NewsService) History() []types.QATurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.QATurn(nil), s.history...)
}

// ExportHistory renders the news Q&A history in the same plain-text format
// as a chat session export.
func (s *NewsService) ExportHistory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, turn := range s.history {
		fmt.Fprintf(&b, "User: %s\n\n", turn.Question)
		fmt.Fprintf(&b, "Assistant: %s\n\n", turn.Answer)
	}
	return b.String()
}

// Clear drops the in-memory index, history, and summary. The persisted index
// is overwritten on the next successful batch.
func (s *NewsService) Clear() {
	s.mu.Lock()
	s.history = nil
	s.summary = ""
	s.index = database.NewMemoryIndex()
	s.mu.Unlock()
}

func (s *NewsService) currentIndex() *database.MemoryIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *NewsService) retrieve(ctx context.Context, query string, k int) ([]types.RetrievedChunk, error) {
	index := s.currentIndex()
	if index.Len() == 0 {
		return nil, types.ErrInvalidScope
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	results, err := index.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}

	chunks := make([]types.RetrievedChunk, len(results))
	for i, res := range results {
		chunks[i] = types.RetrievedChunk{
			Content:    res.Entry.Content,
			DocumentID: res.Entry.DocumentID,
			Source:     res.Entry.Source,
			Score:      res.Score,
		}
	}
	return chunks, nil
}

type pendingArticle struct {
	url    string
	title  string
	chunks []string
}

type fetchedArticle struct {
	title string
	text  string
}

func (s *NewsService) fetchArticle(ctx context.Context, rawURL string) (*fetchedArticle, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article from %s: %w", rawURL, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no article text extracted from %s", rawURL)
	}

	title := article.Title
	if title == "" {
		title = rawURL
	}
	return &fetchedArticle{title: title, text: text}, nil
}

func newsSources(chunks []types.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var sources []string
	for _, chunk := range chunks {
		if _, dup := seen[chunk.Source]; dup {
			continue
		}
		seen[chunk.Source] = struct{}{}
		sources = append(sources, chunk.Source)
	}
	return sources
}
