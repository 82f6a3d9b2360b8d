package repository

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryResourceRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResourceRepository()

	for _, id := range []string{"1", "2", "3"} {
		if _, err := r.Insert(ctx, "blogs", id, Document{"id": id, "userId": "u1", "title": "t" + id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	if _, err := r.Insert(ctx, "blogs", "x", Document{"id": "x", "userId": "u2"}); err != nil {
		t.Fatalf("insert x: %v", err)
	}
	if _, err := r.Insert(ctx, "blogs", "2", Document{"id": "2"}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	docs, err := r.List(ctx, "blogs", "userId", "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := idsOf(docs); got != "1,2,3" {
		t.Errorf("list order = %s, want 1,2,3", got)
	}

	merged, err := r.Merge(ctx, "blogs", "2", Document{"title": "edited", "likes": []any{"u9"}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged["title"] != "edited" || merged["userId"] != "u1" {
		t.Errorf("unexpected merge result: %v", merged)
	}

	// returned documents are copies
	merged["title"] = "mutated"
	got, err := r.Get(ctx, "blogs", "2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["title"] != "edited" {
		t.Errorf("stored document was mutated: %v", got)
	}

	if err := r.Delete(ctx, "blogs", "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, "blogs", "2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Get(ctx, "blogs", "2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Merge(ctx, "blogs", "2", Document{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	docs, _ = r.List(ctx, "blogs", "", "")
	if got := idsOf(docs); got != "1,3,x" {
		t.Errorf("list after delete = %s, want 1,3,x", got)
	}
}

func TestMemoryResourceRepository_FilterByNonString(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryResourceRepository()
	_, _ = r.Insert(ctx, "users", "1", Document{"id": "1", "age": float64(30), "bio": nil})

	docs, _ := r.List(ctx, "users", "age", "30")
	if len(docs) != 1 {
		t.Errorf("expected numeric match, got %v", docs)
	}
	docs, _ = r.List(ctx, "users", "bio", "")
	if len(docs) != 0 {
		t.Errorf("null must not match, got %v", docs)
	}
}

func idsOf(docs []Document) string {
	s := ""
	for i, d := range docs {
		if i > 0 {
			s += ","
		}
		s += d["id"].(string)
	}
	return s
}
