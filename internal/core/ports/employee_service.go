package ports

import (
	"context"

	"github.com/empcore/employee-management/internal/core/domain"
)

// EmployeeService defines use-case operations for employee records.
type EmployeeService interface {
	List(ctx context.Context) ([]*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	Update(ctx context.Context, id string, e *domain.Employee) error
	Remove(ctx context.Context, id string) error
}
