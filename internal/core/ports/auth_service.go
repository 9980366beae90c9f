package ports

import (
	"context"
	"time"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Roles     []string
}

// AuthService verifies credentials and issues tokens.
type AuthService interface {
	// Authenticate checks the password against the stored credential record
	// and returns a signed token over the user's effective roles. Unknown
	// username and wrong password are indistinguishable to the caller.
	Authenticate(ctx context.Context, username, password string) (*LoginResult, error)
}
