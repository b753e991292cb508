package model

import (
	"github.com/google/uuid"
)

type Owner struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Phone    string    `db:"phone" json:"phone"`
	Address  string    `db:"address" json:"address,omitempty"`
}

type CreateOwnerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateOwnerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// OwnerProfile is the owner self-service view: the profile plus their animals.
type OwnerProfile struct {
	Owner   *Owner    `json:"owner"`
	Animals []*Animal `json:"animals"`
}
