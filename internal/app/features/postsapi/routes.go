package postsapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /posts.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/author/{id}", h.ListByAuthor)
	r.Post("/search/radius", h.SearchRadius)
	r.Post("/search/position", h.SearchPosition)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.With(auth.RequireRole(models.RoleBaseUser)).Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
