package database

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const indexFileName = "index.json"

// MemoryIndex is an in-process vector index using brute-force cosine
// similarity. Extend swaps in a fresh slice under the write lock, so a search
// that already grabbed the old slice keeps a consistent snapshot.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []IndexEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (idx *MemoryIndex) Build(entries []IndexEntry) error {
	if len(entries) == 0 {
		return ErrEmptyEntries
	}
	fresh := make([]IndexEntry, len(entries))
	copy(fresh, entries)

	idx.mu.Lock()
	idx.entries = fresh
	idx.mu.Unlock()
	return nil
}

func (idx *MemoryIndex) Extend(entries []IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	fresh := make([]IndexEntry, 0, len(idx.entries)+len(entries))
	fresh = append(fresh, idx.entries...)
	fresh = append(fresh, entries...)
	idx.entries = fresh
	return nil
}

func (idx *MemoryIndex) Search(query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	idx.mu.RLock()
	snapshot := idx.entries
	idx.mu.RUnlock()

	results := make([]SearchResult, 0, len(snapshot))
	for _, entry := range snapshot {
		results = append(results, SearchResult{
			Entry: entry,
			Score: cosineSimilarity(query, entry.Vector),
		})
	}

	// Stable sort keeps insertion order on equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Persist serializes the index into location (a directory, created if
// needed). The write goes through a temp file and rename so a crashed write
// never leaves a truncated index behind.
func (idx *MemoryIndex) Persist(location string) error {
	idx.mu.RLock()
	snapshot := idx.entries
	idx.mu.RUnlock()

	if err := os.MkdirAll(location, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.Marshal(indexFile{Entries: snapshot})
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	tmp := filepath.Join(location, indexFileName+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return os.Rename(tmp, filepath.Join(location, indexFileName))
}

// Load replaces the index contents from a directory written by Persist.
// A missing file surfaces as an fs.ErrNotExist so callers can treat absence
// as an empty index.
func (idx *MemoryIndex) Load(location string) error {
	data, err := os.ReadFile(filepath.Join(location, indexFileName))
	if err != nil {
		return err
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to decode index file: %w", err)
	}

	idx.mu.Lock()
	idx.entries = file.Entries
	idx.mu.Unlock()
	return nil
}

// Entries returns a copy of the indexed entries in insertion order.
func (idx *MemoryIndex) Entries() []IndexEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]IndexEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

type indexFile struct {
	Entries []IndexEntry `json:"entries"`
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
