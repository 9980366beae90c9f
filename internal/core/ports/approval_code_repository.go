package ports

import (
	"context"

	"github.com/empcore/employee-management/internal/core/domain"
)

// ApprovalCodeRepository persists role-escalation approval codes.
type ApprovalCodeRepository interface {
	// Create persists a new unconsumed code and returns its generated id.
	Create(ctx context.Context, code *domain.ApprovalCode) (string, error)
	// ValidateAndConsume atomically marks a matching, unconsumed, unexpired
	// code for the given role as used. Validation and consumption are a single
	// store operation so concurrent redemptions cannot both succeed. Returns
	// domain.ErrCodeInvalid when no such code exists; nothing is mutated then.
	ValidateAndConsume(ctx context.Context, code, role string) error
}
