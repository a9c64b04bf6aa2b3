package emailapi

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /email.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Send)
	r.Get("/verify", h.Verify)
	return r
}
