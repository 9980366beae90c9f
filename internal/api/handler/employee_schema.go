package handler

import (
	"time"

	"github.com/empcore/employee-management/internal/core/domain"
)

type employeeRequest struct {
	Name          string    `json:"name" validate:"required"`
	Department    string    `json:"department" validate:"required"`
	Position      string    `json:"position" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Phone         string    `json:"phone"`
	Salary        float64   `json:"salary" validate:"gt=0"`
	DateOfJoining time.Time `json:"date_of_joining"`
	IsActive      bool      `json:"is_active"`
}

func (r *employeeRequest) toDomain() *domain.Employee {
	return &domain.Employee{
		Name:          r.Name,
		Department:    r.Department,
		Position:      r.Position,
		Email:         r.Email,
		Phone:         r.Phone,
		Salary:        r.Salary,
		DateOfJoining: r.DateOfJoining,
		IsActive:      r.IsActive,
	}
}
