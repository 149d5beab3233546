package settingsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the settings API endpoints.
//
// When mounted at /api/settings:
//   - GET  /api/settings - Load the settings map
//   - PUT  /api/settings - Replace the settings map
//   - POST /api/settings - Alias of PUT
//
// Authentication and CORS are applied by the enclosing /api group.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Replace)
	r.Post("/", h.Replace)
	return r
}
