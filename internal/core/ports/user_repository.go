package ports

import (
	"context"

	"github.com/empcore/employee-management/internal/core/domain"
)

// UserRepository defines persistence operations for credential records.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts a new credential record. Username uniqueness is enforced
	// by the store itself (unique index), not by a check-then-insert split.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetRoles replaces the user's role list. Returns domain.ErrUserNotFound
	// when no record matches the username.
	SetRoles(ctx context.Context, username string, roles []string) error
}
