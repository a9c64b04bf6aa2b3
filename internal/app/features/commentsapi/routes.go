package commentsapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /comments.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/post/{id}", h.ListByPost)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/likes", h.Like)
		r.Delete("/{id}/likes", h.Unlike)
	})
	return r
}
