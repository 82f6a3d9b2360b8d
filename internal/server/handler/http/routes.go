package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/BlogSync/internal/middleware"
)

// NewRouter constructs the HTTP handler of the resource server.
//
// Routes:
//
//	GET    /{collection}        → resources.List
//	POST   /{collection}        → resources.Create
//	GET    /{collection}/{id}   → resources.Get
//	PATCH  /{collection}/{id}   → resources.Patch
//	DELETE /{collection}/{id}   → resources.Delete
//
// Middleware chain (applied in order): request id, panic recovery, request
// logging, and JSON content-type enforcement for requests with a body.
func NewRouter(resources *ResourceHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/{collection}", func(r chi.Router) {
		r.Get("/", resources.List)
		r.Post("/", resources.Create)
		r.Get("/{id}", resources.Get)
		r.Patch("/{id}", resources.Patch)
		r.Delete("/{id}", resources.Delete)
	})

	return r
}
