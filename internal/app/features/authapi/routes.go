package authapi

import (
	"time"

	"github.com/eventra/eventra/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted under /auth. Sign-in attempts are
// throttled per client IP to slow down credential stuffing.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	limiter := ratelimit.New(10, time.Minute)
	h.limiter = limiter
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/sessions", h.Login)
		r.Post("/sessions/google", h.LoginGoogle)
	})
	return r
}
