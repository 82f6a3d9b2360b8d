package repository

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MemoryResourceRepository keeps collections in process memory. It is used
// when the server runs without a database.
type MemoryResourceRepository struct {
	mu   sync.RWMutex
	data map[string][]Document
}

func NewMemoryResourceRepository() *MemoryResourceRepository {
	return &MemoryResourceRepository{data: make(map[string][]Document)}
}

func (r *MemoryResourceRepository) List(_ context.Context, collection, field, value string) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := []Document{}
	for _, d := range r.data[collection] {
		if field != "" && !matches(d[field], value) {
			continue
		}
		docs = append(docs, maps.Clone(d))
	}
	return docs, nil
}

func (r *MemoryResourceRepository) Get(_ context.Context, collection, id string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return maps.Clone(r.data[collection][i]), nil
}

func (r *MemoryResourceRepository) Insert(_ context.Context, collection, id string, doc Document) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(collection, id) >= 0 {
		return nil, ErrConflict
	}
	stored := maps.Clone(doc)
	r.data[collection] = append(r.data[collection], stored)
	return maps.Clone(stored), nil
}

func (r *MemoryResourceRepository) Merge(_ context.Context, collection, id string, patch Document) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	merged := maps.Clone(r.data[collection][i])
	maps.Copy(merged, patch)
	r.data[collection][i] = merged
	return maps.Clone(merged), nil
}

func (r *MemoryResourceRepository) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	docs := r.data[collection]
	r.data[collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (r *MemoryResourceRepository) index(collection, id string) int {
	for i, d := range r.data[collection] {
		if d["id"] == id {
			return i
		}
	}
	return -1
}

// matches compares a document field with a query value the way doc->>field
// does in PostgreSQL: strings as-is, everything else by its text form.
func matches(v any, value string) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x == value
	default:
		return fmt.Sprint(x) == value
	}
}
