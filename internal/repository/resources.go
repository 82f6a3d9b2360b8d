package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresResourceRepository stores every collection in one table, one JSONB
// document per record. Insertion order is kept by the serial seq column.
type PostgresResourceRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresResourceRepository creates a repository over db.
// db must be a valid connection to a PostgreSQL instance with the resources
// table created (see db.InitPostgres).
func NewPostgresResourceRepository(db *sql.DB) *PostgresResourceRepository {
	return &PostgresResourceRepository{DB: db}
}

// List returns the documents of collection in insertion order. When field is
// not empty only documents whose field equals value (as text) are returned.
func (r *PostgresResourceRepository) List(ctx context.Context, collection, field, value string) ([]Document, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if field == "" {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT doc FROM resources WHERE collection = $1 ORDER BY seq
		`, collection)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT doc FROM resources WHERE collection = $1 AND doc->>$2 = $3 ORDER BY seq
		`, collection, field, value)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// Get returns a single document or ErrNotFound.
func (r *PostgresResourceRepository) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT doc FROM resources WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decode(raw)
}

// Insert stores doc under id. An existing id yields ErrConflict.
func (r *PostgresResourceRepository) Insert(ctx context.Context, collection, id string, doc Document) (Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var raw []byte
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO resources (collection, id, doc) VALUES ($1, $2, $3) RETURNING doc
	`, collection, id, data).Scan(&raw)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return decode(raw)
}

// Merge shallow-merges patch into the stored document and returns the result.
func (r *PostgresResourceRepository) Merge(ctx context.Context, collection, id string, patch Document) (Document, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	var raw []byte
	err = r.DB.QueryRowContext(ctx, `
		UPDATE resources SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2 RETURNING doc
	`, collection, id, data).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return decode(raw)
}

// Delete removes a document or returns ErrNotFound.
func (r *PostgresResourceRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM resources WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decode(raw []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
