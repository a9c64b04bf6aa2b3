package uploadsapi

import (
	"net/http"

	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/app/system/httpjson"
	"github.com/eventra/eventra/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// contextRoles maps each upload context to the roles allowed to request a
// signature. A nil entry means the context is open, matching profile photos
// being staged before an account exists.
var contextRoles = map[string][]models.Role{
	"post":          {models.RoleBaseUser},
	"party":         {models.RoleBaseUser},
	"event":         {models.RoleOrganizer},
	"profile-photo": nil,
}

// Routes returns the subrouter mounted under /uploads.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/signatures/{context}", gate(tokens, h.Sign))
	return r
}

// gate applies the per-context role requirement before handing off. Open
// contexts skip token verification entirely.
func gate(tokens *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, known := contextRoles[chi.URLParam(r, "context")]
		if !known {
			httpjson.Error(w, http.StatusBadRequest, "unknown upload context")
			return
		}
		if roles == nil {
			next(w, r)
			return
		}

		tok := auth.BearerToken(r)
		if tok == "" {
			httpjson.Error(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}
		p, err := tokens.Verify(tok)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		allowed := false
		for _, role := range roles {
			if p.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			httpjson.Error(w, http.StatusForbidden, "insufficient role")
			return
		}
		next(w, r)
	}
}
