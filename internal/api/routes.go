package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the API routes. limit wraps the routes that bump
// the students helped counter; pass nil to leave them unthrottled.
func (h *Handler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/books", h.ListBooks)
		r.Get("/progress", h.GetProgress)
		r.Get("/counter", h.GetCounter)

		r.Route("/chapters/{code}", func(r chi.Router) {
			r.Get("/test", h.StartTest)
			r.Post("/test", h.SubmitTest)
			r.Get("/bonus", h.GetBonus)
			r.With(optional(limit)).Post("/open", h.OpenChapter)
		})

		r.With(optional(limit)).Post("/contact/{channel}", h.Contact)
	})
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
