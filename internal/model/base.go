package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Role is the principal's role carried in the credential.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleVeterinarian Role = "VETERINARIAN"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleOwner        Role = "OWNER"
)

// IsStaff reports whether the role is clinic staff rather than a pet owner.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleVeterinarian || r == RoleReceptionist
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVeterinarian, RoleReceptionist, RoleOwner:
		return true
	}
	return false
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}
