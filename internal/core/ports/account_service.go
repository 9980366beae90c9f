package ports

import (
	"context"
	"time"
)

// ApprovalCodeResult is returned once at issuance; the raw code is not
// retrievable afterwards through any API.
type ApprovalCodeResult struct {
	ID        string
	Code      string
	ExpiresAt time.Time
}

// AccountService covers registration and the role-escalation workflow.
type AccountService interface {
	// Register is public self-registration. Only the least-privileged role is
	// accepted; anything else fails with a validation error naming the role.
	Register(ctx context.Context, username, password, role string) error
	// CreateUser is admin-driven creation with the full role set. The request
	// fails wholesale if any role is unrecognised.
	CreateUser(ctx context.Context, username, password string, roles []string) error
	// IssueApprovalCode creates a Moderator approval code valid for
	// expiresInHours (bounded 1-168 inclusive).
	IssueApprovalCode(ctx context.Context, expiresInHours int, issuedBy string) (*ApprovalCodeResult, error)
	// RedeemModeratorCode re-verifies the password, then consumes an
	// unredeemed, unexpired Moderator code and persists the widened role set.
	// A user already holding Moderator succeeds without consuming the code.
	RedeemModeratorCode(ctx context.Context, username, password, code string) error
}
