package model

import (
	"time"

	"github.com/google/uuid"
)

// ShareLink is a capability token granting time- and count-limited public read
// access to one animal's record.
type ShareLink struct {
	Base
	AnimalID    uuid.UUID `db:"animal_id" json:"animal_id"`
	Code        string    `db:"code" json:"code"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
	MaxAccess   *int      `db:"max_access" json:"max_access,omitempty"`
	AccessCount int       `db:"access_count" json:"access_count"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
}

type CreateShareLinkRequest struct {
	AnimalID      string `json:"animal_id" binding:"required,uuid"`
	ExpiresInDays int    `json:"expires_in_days" binding:"omitempty,gt=0"`
	MaxAccess     *int   `json:"max_access" binding:"omitempty,gt=0"`
}

// SharedAnimalView is the bounded read-only projection returned to anonymous
// holders of a valid share code.
type SharedAnimalView struct {
	Animal        *Animal         `json:"animal"`
	OwnerName     string          `json:"owner_name"`
	Vaccinations  []*Vaccination  `json:"vaccinations"`
	Consultations []*Consultation `json:"consultations"`
	Certificates  []*Certificate  `json:"certificates"`
}
