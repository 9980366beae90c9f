package ports

import (
	"context"

	"github.com/empcore/employee-management/internal/core/domain"
)

// EmployeeRepository defines persistence operations for employee records.
type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	Update(ctx context.Context, id string, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
}
