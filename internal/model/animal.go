package model

import (
	"time"

	"github.com/google/uuid"
)

type Animal struct {
	Base
	ClinicID      uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	OwnerID       uuid.UUID  `db:"owner_id" json:"owner_id"`
	Name          string     `db:"name" json:"name"`
	Species       string     `db:"species" json:"species"`
	Breed         string     `db:"breed" json:"breed,omitempty"`
	Sex           string     `db:"sex" json:"sex,omitempty"`
	BirthDate     *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	CurrentWeight *float64   `db:"current_weight" json:"current_weight,omitempty"`
	Microchip     *string    `db:"microchip" json:"microchip,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
}

type CreateAnimalRequest struct {
	OwnerID   string     `json:"owner_id" binding:"required,uuid"`
	Name      string     `json:"name" binding:"required"`
	Species   string     `json:"species" binding:"required"`
	Breed     string     `json:"breed"`
	Sex       string     `json:"sex" binding:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birth_date"`
	Microchip *string    `json:"microchip"`
}

type UpdateAnimalRequest struct {
	Name      *string    `json:"name"`
	Species   *string    `json:"species"`
	Breed     *string    `json:"breed"`
	Sex       *string    `json:"sex" binding:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birth_date"`
	Microchip *string    `json:"microchip"`
	IsActive  *bool      `json:"is_active"`
}

// WeightEntry is one measurement in an animal's weight history.
type WeightEntry struct {
	ID         uuid.UUID `db:"id" json:"id"`
	AnimalID   uuid.UUID `db:"animal_id" json:"animal_id"`
	Weight     float64   `db:"weight" json:"weight"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateWeightEntryRequest struct {
	Weight     float64    `json:"weight" binding:"required,gt=0"`
	RecordedAt *time.Time `json:"recorded_at"`
	Notes      string     `json:"notes"`
}
