package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

// EmployeeService implements the employee CRUD use-cases.
type EmployeeService struct {
	repo   ports.EmployeeRepository
	logger zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logger}
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.FindAll(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create employee")
		return nil, err
	}
	s.logger.Info().Str("employee_id", created.ID).Str("department", created.Department).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, e *domain.Employee) error {
	if err := s.repo.Update(ctx, id, e); err != nil {
		return err
	}
	s.logger.Info().Str("employee_id", id).Msg("employee updated")
	return nil
}

func (s *EmployeeService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("employee_id", id).Msg("employee removed")
	return nil
}
