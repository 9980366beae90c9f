package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RoleAdmin     = "Admin"
	RoleModerator = "Moderator"
	RoleReadOnly  = "ReadOnly"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("username already exists")
var ErrRolesRequired = errors.New("at least one role is required")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrInvalidToken = errors.New("invalid token")

// InvalidRolesError reports which requested roles are not recognised. The
// whole request fails; no partial role set is ever applied.
type InvalidRolesError struct {
	Roles []string
}

func (e *InvalidRolesError) Error() string {
	return fmt.Sprintf("invalid roles: %s", strings.Join(e.Roles, ", "))
}

// CanonicalRole maps a role name to its canonical spelling, case-insensitively.
// The second return value is false for unrecognised roles.
func CanonicalRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		return RoleAdmin, true
	case "moderator":
		return RoleModerator, true
	case "readonly":
		return RoleReadOnly, true
	default:
		return "", false
	}
}

// User models an authenticated actor. Password is stored and compared as-is;
// there is no hashing in this system. The scalar Role field is a legacy format
// kept for documents written before the Roles list existed.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Role     string   `json:"-"`
	Roles    []string `json:"roles"`
}

// EffectiveRoles resolves the legacy duality: the Roles list wins when
// non-empty, otherwise the scalar Role is promoted to a one-element list.
// Users with neither have no roles.
func (u *User) EffectiveRoles() []string {
	if len(u.Roles) > 0 {
		out := make([]string, len(u.Roles))
		copy(out, u.Roles)
		return out
	}
	if u.Role != "" {
		return []string{u.Role}
	}
	return nil
}

// HasRole reports whether the user effectively holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.EffectiveRoles() {
		if r == role {
			return true
		}
	}
	return false
}
