package categoriesapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /categories. Reads are public;
// writes are administrator-only.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Use(auth.RequireRole(models.RoleAdministrator))
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
