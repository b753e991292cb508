package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	Base
	ClinicID     uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	AnimalID     uuid.UUID         `db:"animal_id" json:"animal_id"`
	VetID        *uuid.UUID        `db:"vet_id" json:"vet_id,omitempty"`
	Date         time.Time         `db:"date" json:"date"`
	Reason       string            `db:"reason" json:"reason"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	AnimalID string    `json:"animal_id" binding:"required,uuid"`
	VetID    string    `json:"vet_id" binding:"omitempty,uuid"`
	Date     time.Time `json:"date" binding:"required"`
	Reason   string    `json:"reason" binding:"required,max=500"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	VetID  *string    `json:"vet_id" binding:"omitempty,uuid"`
	Date   *time.Time `json:"date"`
	Reason *string    `json:"reason" binding:"omitempty,max=500"`
	Notes  *string    `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status       AppointmentStatus `json:"status" binding:"required"`
	CancelReason *string           `json:"cancel_reason"`
}

// CompleteAppointmentRequest closes an appointment and records the resulting
// consultation in one operation.
type CompleteAppointmentRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type AppointmentFilters struct {
	AnimalID *uuid.UUID
	VetID    *uuid.UUID
	Status   AppointmentStatus
	From     *time.Time
	To       *time.Time
}
