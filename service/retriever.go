package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/types"
)

// DefaultTopK matches the retrieval depth used for question answering.
const DefaultTopK = 4

// SummaryTopK is the deeper retrieval used when summarizing a whole scope.
const SummaryTopK = 5

// Retriever fans a query out across the vector indices of the in-scope
// documents and merges the results into a single ranked list.
type Retriever struct {
	embedder EmbeddingService
	repo     *repository.DocumentRepo
}

func NewRetriever(embedder EmbeddingService, repo *repository.DocumentRepo) *Retriever {
	return &Retriever{
		embedder: embedder,
		repo:     repo,
	}
}

// Retrieve embeds the query once, searches every in-scope index, and merges
// by similarity. Identical chunk text is deduplicated, keeping the higher
// ranked occurrence. Each result carries its originating document ID for
// citation.
func (r *Retriever) Retrieve(ctx context.Context, documentIDs []string, query string, k int) ([]types.RetrievedChunk, error) {
	if len(documentIDs) == 0 {
		return nil, types.ErrInvalidScope
	}

	// A scope whose documents were never indexed can never answer; failing
	// here keeps an ungrounded turn out of the session history.
	indices := make([]database.VectorIndex, 0, len(documentIDs))
	for _, docID := range documentIDs {
		if index, ok := r.repo.Index(docID); ok {
			indices = append(indices, index)
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no indexed documents in scope: %w", types.ErrInvalidScope)
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	queryVector := vectors[0]

	var merged []types.RetrievedChunk
	for _, index := range indices {
		results, err := index.Search(queryVector, k)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			merged = append(merged, types.RetrievedChunk{
				Content:    res.Entry.Content,
				DocumentID: res.Entry.DocumentID,
				Source:     res.Entry.Source,
				Score:      res.Score,
			})
		}
	}

	merged = mergeRanked(merged)
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged, nil
}

// mergeRanked sorts by non-increasing score (stable, so per-index order holds
// on ties) and drops chunks whose text was already seen at a higher rank.
func mergeRanked(chunks []types.RetrievedChunk) []types.RetrievedChunk {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})

	seen := make(map[string]struct{}, len(chunks))
	deduped := chunks[:0]
	for _, c := range chunks {
		if _, dup := seen[c.Content]; dup {
			continue
		}
		seen[c.Content] = struct{}{}
		deduped = append(deduped, c)
	}
	return deduped
}
