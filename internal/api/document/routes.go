package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes. Upload and ask are rate limited.
func RegisterRoutes(r chi.Router, h *Handler, requireAuth, rateLimit func(http.Handler) http.Handler) {
	r.Route("/docs", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/mine", h.ListMine)
		r.With(rateLimit).Post("/upload", h.Upload)
		r.With(rateLimit).Post("/ask", h.Ask)
	})
}
