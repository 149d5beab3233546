package pagesapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the page API endpoints.
// Authentication and CORS are applied by the enclosing /api group.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{slug}", func(sr chi.Router) {
		sr.Get("/", h.Get)
		sr.Put("/", h.Update)
		sr.Delete("/", h.Delete)
		sr.Get("/preview", h.Preview)
	})
	return r
}
