// internal/domain/models/roles.go
package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Unknown role strings are rejected
// at the model boundary rather than at each call site.
type Role string

const (
	RoleBaseUser      Role = "base_user"
	RoleOrganizer     Role = "organizer"
	RoleAdministrator Role = "administrator"
)

// Roles is the canonical list, used to build schema enums.
var Roles = []Role{RoleBaseUser, RoleOrganizer, RoleAdministrator}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleBaseUser:
		return RoleBaseUser, nil
	case RoleOrganizer:
		return RoleOrganizer, nil
	case RoleAdministrator:
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleBaseUser, RoleOrganizer, RoleAdministrator:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
