package ports

import "time"

// TokenService issues and validates signed bearer tokens.
type TokenService interface {
	// Issue signs a token for the user carrying one role claim per role.
	// Role entries may themselves be comma-delimited; they are split and
	// trimmed before encoding.
	Issue(username string, roles []string) (token string, expiresAt time.Time, err error)
	// Validate verifies signature, issuer, audience and expiry, and returns
	// the identity claim. Any failure yields domain.ErrInvalidToken; invalid
	// tokens are an expected outcome, never a panic.
	Validate(token string) (username string, err error)
}
