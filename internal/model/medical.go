package model

import (
	"time"

	"github.com/google/uuid"
)

type Vaccination struct {
	Base
	ClinicID       uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	AnimalID       uuid.UUID  `db:"animal_id" json:"animal_id"`
	Name           string     `db:"name" json:"name"`
	AdministeredAt time.Time  `db:"administered_at" json:"administered_at"`
	NextDueAt      *time.Time `db:"next_due_at" json:"next_due_at,omitempty"`
	VetID          *uuid.UUID `db:"vet_id" json:"vet_id,omitempty"`
	Batch          string     `db:"batch" json:"batch,omitempty"`
}

type CreateVaccinationRequest struct {
	AnimalID       string     `json:"animal_id" binding:"required,uuid"`
	Name           string     `json:"name" binding:"required"`
	AdministeredAt *time.Time `json:"administered_at"`
	NextDueAt      *time.Time `json:"next_due_at"`
	VetID          string     `json:"vet_id" binding:"omitempty,uuid"`
	Batch          string     `json:"batch"`
}

type Certificate struct {
	Base
	ClinicID uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	AnimalID uuid.UUID  `db:"animal_id" json:"animal_id"`
	Kind     string     `db:"kind" json:"kind"`
	IssuedAt time.Time  `db:"issued_at" json:"issued_at"`
	VetID    *uuid.UUID `db:"vet_id" json:"vet_id,omitempty"`
	Details  string     `db:"details" json:"details,omitempty"`
}

type CreateCertificateRequest struct {
	AnimalID string     `json:"animal_id" binding:"required,uuid"`
	Kind     string     `json:"kind" binding:"required"`
	IssuedAt *time.Time `json:"issued_at"`
	VetID    string     `json:"vet_id" binding:"omitempty,uuid"`
	Details  string     `json:"details"`
}

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusCompleted PrescriptionStatus = "completed"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

type Prescription struct {
	Base
	ClinicID       uuid.UUID                 `db:"clinic_id" json:"clinic_id"`
	AnimalID       uuid.UUID                 `db:"animal_id" json:"animal_id"`
	ConsultationID *uuid.UUID                `db:"consultation_id" json:"consultation_id,omitempty"`
	VetID          *uuid.UUID                `db:"vet_id" json:"vet_id,omitempty"`
	IssuedAt       time.Time                 `db:"issued_at" json:"issued_at"`
	Notes          string                    `db:"notes" json:"notes,omitempty"`
	Status         PrescriptionStatus        `db:"status" json:"status"`
	Medications    []*PrescriptionMedication `db:"-" json:"medications,omitempty"`
}

type PrescriptionMedication struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	Name           string    `db:"name" json:"name"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Frequency      string    `db:"frequency" json:"frequency"`
	Duration       string    `db:"duration" json:"duration"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreatePrescriptionRequest struct {
	AnimalID       string                    `json:"animal_id" binding:"required,uuid"`
	ConsultationID string                    `json:"consultation_id" binding:"omitempty,uuid"`
	VetID          string                    `json:"vet_id" binding:"omitempty,uuid"`
	Notes          string                    `json:"notes"`
	Medications    []CreateMedicationRequest `json:"medications" binding:"dive"`
}

type CreateMedicationRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type UpdatePrescriptionRequest struct {
	Notes  *string             `json:"notes"`
	Status *PrescriptionStatus `json:"status"`
}
