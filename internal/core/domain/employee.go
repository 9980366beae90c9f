package domain

import (
	"errors"
	"time"
)

var ErrEmployeeNotFound = errors.New("employee not found")
var ErrForbidden = errors.New("access forbidden")

// Employee is the record managed by the CRUD surface.
type Employee struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	Department    string    `json:"department" bson:"department"`
	Position      string    `json:"position" bson:"position"`
	Email         string    `json:"email" bson:"email"`
	Phone         string    `json:"phone" bson:"phone"`
	Salary        float64   `json:"salary" bson:"salary"`
	DateOfJoining time.Time `json:"date_of_joining" bson:"dateOfJoining"`
	IsActive      bool      `json:"is_active" bson:"isActive"`
}
