// Package repository provides persistence implementations for the resource
// server collections: a PostgreSQL JSONB store and an in-memory store.
package repository

import "errors"

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when inserting an id that already exists.
	ErrConflict = errors.New("duplicate id")
)

// Document is a single JSON record of a collection.
type Document = map[string]any
