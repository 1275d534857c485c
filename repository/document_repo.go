package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/types"
)

// DocumentRepo registers ingested documents and the vector index built for
// each one. Documents are immutable once registered; the registry lives for
// the process lifetime.
type DocumentRepo struct {
	mu      sync.RWMutex
	docs    map[string]types.Document
	indices map[string]database.VectorIndex
}

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{
		docs:    make(map[string]types.Document),
		indices: make(map[string]database.VectorIndex),
	}
}

func (r *DocumentRepo) Register(doc types.Document, index database.VectorIndex) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already registered", doc.ID)
	}
	r.docs[doc.ID] = doc
	r.indices[doc.ID] = index
	return nil
}

func (r *DocumentRepo) Get(id string) (types.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	return doc, ok
}

func (r *DocumentRepo) Index(id string) (database.VectorIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indices[id]
	return idx, ok
}

// List returns all registered documents ordered by creation time, then ID so
// the order is stable for documents created in the same second.
func (r *DocumentRepo) List() []types.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}
