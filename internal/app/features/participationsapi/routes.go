package participationsapi

import (
	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /participations. Registering
// and unregistering are base-user actions; participant lists are public.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/events/{id}", h.listParticipants(h.Events))
	r.Get("/parties/{id}", h.listParticipants(h.Parties))

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Use(auth.RequireRole(models.RoleBaseUser))
		r.Post("/events/{id}", h.register(h.Events))
		r.Delete("/events/{id}", h.unregister(h.Events))
		r.Post("/parties/{id}", h.register(h.Parties))
		r.Delete("/parties/{id}", h.unregister(h.Parties))
	})
	return r
}
