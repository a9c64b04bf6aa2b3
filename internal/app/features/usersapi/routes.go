package usersapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /users.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Register)
	r.Get("/", h.ListByRole)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Get("/me", h.Me)
		r.Patch("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)
	})

	r.Get("/{id}", h.Get)
	return r
}
