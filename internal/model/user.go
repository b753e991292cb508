package model

import (
	"github.com/google/uuid"
)

type User struct {
	Base
	ClinicID     *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	OwnerID      *uuid.UUID `db:"owner_id" json:"owner_id,omitempty"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Role         Role       `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
}

type CreateUserRequest struct {
	ClinicID string `json:"clinic_id" binding:"required,uuid"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Name  *string `json:"name"`
	Role  *Role   `json:"role"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
