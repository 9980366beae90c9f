package ports

import (
	"context"

	"github.com/empcore/employee-management/internal/core/domain"
)

// AuditSink accepts auth audit events for asynchronous persistence.
// Implementations must not block request handling.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}

// AuditRepository persists auth audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
