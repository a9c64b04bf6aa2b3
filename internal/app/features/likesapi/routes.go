package likesapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /likes.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/post/{post_id}", h.ListByPost)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Post("/post/{post_id}", h.Create)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
