package gatheringsapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /events or /parties.
// createRole is the one role allowed to create in this collection:
// organizer for events, base_user for parties.
func Routes(h *Handler, tokens *auth.TokenManager, createRole models.Role) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/organizer/{id}", h.ListByOrganizer)
	r.Get("/category/{id}", h.ListByCategory)
	r.Post("/search/radius", h.SearchRadius)
	r.Post("/search/position", h.SearchPosition)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.With(auth.RequireRole(createRole)).Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
