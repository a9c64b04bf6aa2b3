// internal/app/system/authz/authz.go

// Package authz provides small helpers over the request principal for
// handlers that need user context without re-running middleware checks.
package authz

import (
	"net/http"

	"github.com/eventra/eventra/internal/app/system/auth"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role, user ObjectID, and a found flag.
// ok=true guarantees a valid, authenticated principal.
func UserCtx(r *http.Request) (role models.Role, userID primitive.ObjectID, ok bool) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	return p.Role, p.UserID, true
}

// HasRole reports whether the caller holds the given role.
// Returns false when no principal is present.
func HasRole(r *http.Request, role models.Role) bool {
	cur, _, ok := UserCtx(r)
	return ok && cur == role
}

// IsAdministrator reports whether the caller is an administrator.
func IsAdministrator(r *http.Request) bool {
	return HasRole(r, models.RoleAdministrator)
}

// IsOrganizer reports whether the caller is an organizer.
func IsOrganizer(r *http.Request) bool {
	return HasRole(r, models.RoleOrganizer)
}

// IsBaseUser reports whether the caller is a base user.
func IsBaseUser(r *http.Request) bool {
	return HasRole(r, models.RoleBaseUser)
}
