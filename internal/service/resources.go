// Package service provides the business rules of the resource server:
// which collections exist and what a valid record looks like. Persistence is
// delegated to a ResourceRepository.
package service

import (
	"context"
	"errors"

	"github.com/atinyakov/BlogSync/internal/repository"
)

var (
	// ErrUnknownCollection is returned for any collection other than users and blogs.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrInvalidID is returned when a new record has no non-empty string id.
	ErrInvalidID = errors.New("id must be a non-empty string")
)

// Collections served by the resource server.
var Collections = []string{"users", "blogs"}

// ResourceRepository defines the persistence operations needed by the ResourceService.
type ResourceRepository interface {
	// List returns documents in insertion order, optionally filtered by field == value.
	List(ctx context.Context, collection, field, value string) ([]repository.Document, error)
	// Get returns a single document or repository.ErrNotFound.
	Get(ctx context.Context, collection, id string) (repository.Document, error)
	// Insert stores a new document or returns repository.ErrConflict.
	Insert(ctx context.Context, collection, id string, doc repository.Document) (repository.Document, error)
	// Merge shallow-merges patch into a document and returns the result.
	Merge(ctx context.Context, collection, id string, patch repository.Document) (repository.Document, error)
	// Delete removes a document or returns repository.ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
}

// ResourceService implements the CRUD rules shared by every collection.
type ResourceService struct {
	repo ResourceRepository
}

// NewResourceService constructs a ResourceService over repo.
func NewResourceService(repo ResourceRepository) *ResourceService {
	return &ResourceService{repo: repo}
}

func checkCollection(collection string) error {
	for _, c := range Collections {
		if c == collection {
			return nil
		}
	}
	return ErrUnknownCollection
}

// List returns the records of collection. An empty field disables filtering.
func (s *ResourceService) List(ctx context.Context, collection, field, value string) ([]repository.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, collection, field, value)
}

// Get returns one record by id.
func (s *ResourceService) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, collection, id)
}

// Create stores doc as given. The server assigns no fields; the id comes
// from the client.
func (s *ResourceService) Create(ctx context.Context, collection string, doc repository.Document) (repository.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		return nil, ErrInvalidID
	}
	return s.repo.Insert(ctx, collection, id, doc)
}

// Patch merges patch into the record. The id of a record cannot be changed,
// so an id key in patch is ignored.
func (s *ResourceService) Patch(ctx context.Context, collection, id string, patch repository.Document) (repository.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	clean := make(repository.Document, len(patch))
	for k, v := range patch {
		if k != "id" {
			clean[k] = v
		}
	}
	return s.repo.Merge(ctx, collection, id, clean)
}

// Delete removes one record by id.
func (s *ResourceService) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return s.repo.Delete(ctx, collection, id)
}
