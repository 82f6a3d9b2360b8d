// Package http provides the HTTP handlers and router of the resource server.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/repository"
	"github.com/atinyakov/BlogSync/internal/service"
)

// ResourceService defines the collection operations required by the
// ResourceHandler.
type ResourceService interface {
	List(ctx context.Context, collection, field, value string) ([]repository.Document, error)
	Get(ctx context.Context, collection, id string) (repository.Document, error)
	Create(ctx context.Context, collection string, doc repository.Document) (repository.Document, error)
	Patch(ctx context.Context, collection, id string, patch repository.Document) (repository.Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// ResourceHandler serves CRUD requests for every collection.
type ResourceHandler struct {
	// Service performs the underlying collection operations.
	Service ResourceService
	// Logger records unexpected failures. May be nil.
	Logger *zap.Logger
}

// List handles GET /{collection}. At most one query parameter is accepted
// and is applied as an equality filter.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if len(query) > 1 {
		writeError(w, http.StatusBadRequest, "only one filter is supported")
		return
	}

	var field, value string
	for k, v := range query {
		if len(v) != 1 {
			writeError(w, http.StatusBadRequest, "filter must have exactly one value")
			return
		}
		field, value = k, v[0]
	}

	docs, err := h.Service.List(r.Context(), chi.URLParam(r, "collection"), field, value)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /{collection}/{id}.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Create handles POST /{collection}. The body is stored as sent and echoed
// back with status 201.
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	stored, err := h.Service.Create(r.Context(), chi.URLParam(r, "collection"), doc)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// Patch handles PATCH /{collection}/{id} and returns the merged record.
func (h *ResourceHandler) Patch(w http.ResponseWriter, r *http.Request) {
	patch, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.Patch(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /{collection}/{id} and answers with an empty object.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *ResourceHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCollection), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("resource request failed", zap.Error(err))
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeDocument(w http.ResponseWriter, r *http.Request) (repository.Document, bool) {
	var doc repository.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil || doc == nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return nil, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
