package faqsapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /faqs.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/event/{id}", h.ListByEvent)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.With(auth.RequireRole(models.RoleBaseUser)).Post("/", h.Create)
		r.Patch("/{id}/answer", h.Answer)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
