package model

import (
	"time"

	"github.com/google/uuid"
)

type Consultation struct {
	Base
	ClinicID      uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	AnimalID      uuid.UUID  `db:"animal_id" json:"animal_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	VetID         *uuid.UUID `db:"vet_id" json:"vet_id,omitempty"`
	Date          time.Time  `db:"date" json:"date"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Treatment     string     `db:"treatment" json:"treatment,omitempty"`
	Notes         string     `db:"notes" json:"notes,omitempty"`
}

type CreateConsultationRequest struct {
	AnimalID      string     `json:"animal_id" binding:"required,uuid"`
	AppointmentID string     `json:"appointment_id" binding:"omitempty,uuid"`
	VetID         string     `json:"vet_id" binding:"omitempty,uuid"`
	Date          *time.Time `json:"date"`
	Diagnosis     string     `json:"diagnosis" binding:"required"`
	Treatment     string     `json:"treatment"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

type UpdateConsultationRequest struct {
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}
