package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler, requireAuth func(http.Handler) http.Handler) {
	r.Route("/chats", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListChats)
		r.Post("/", h.CreateChat)

		r.Route("/{chat_id}", func(r chi.Router) {
			r.Get("/", h.GetChat)
			r.Delete("/", h.DeleteChat)
			r.Post("/messages", h.AppendMessage)
			r.Get("/export", h.ExportChat)
		})
	})
}
