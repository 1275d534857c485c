package database

import (
	"errors"
)

var (
	// ErrEmptyEntries is returned by Build when there is nothing to index.
	ErrEmptyEntries = errors.New("cannot build index from empty entries")

	// ErrInvalidK is returned by Search for a non-positive k.
	ErrInvalidK = errors.New("k must be positive")
)

// IndexEntry is one (vector, chunk text, provenance) triple stored in a
// vector index. Vectors are never mutated after insertion.
type IndexEntry struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	DocumentID string    `json:"document_id"`
	Source     string    `json:"source"`
	Vector     []float32 `json:"vector"`
}

// SearchResult is an index entry ranked by similarity to a query vector.
type SearchResult struct {
	Entry IndexEntry
	Score float64
}

// VectorIndex supports incremental insertion and k-nearest-neighbor search
// over embedding vectors. The distance metric is fixed per index.
type VectorIndex interface {
	// Build constructs the index from a non-empty set of entries, replacing
	// any previous contents. Fails with ErrEmptyEntries on empty input.
	Build(entries []IndexEntry) error

	// Extend appends entries without rebuilding existing ones. New entries
	// become visible to future searches only.
	Extend(entries []IndexEntry) error

	// Search returns up to k entries ranked by non-increasing similarity to
	// the query vector. Ties keep insertion order. k <= 0 is an input error.
	Search(query []float32, k int) ([]SearchResult, error)

	// Len reports the number of indexed entries.
	Len() int
}
