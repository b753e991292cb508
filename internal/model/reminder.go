package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

type Reminder struct {
	Base
	ClinicID uuid.UUID      `db:"clinic_id" json:"clinic_id"`
	AnimalID uuid.UUID      `db:"animal_id" json:"animal_id"`
	Kind     string         `db:"kind" json:"kind"`
	DueAt    time.Time      `db:"due_at" json:"due_at"`
	Channel  string         `db:"channel" json:"channel"`
	Status   ReminderStatus `db:"status" json:"status"`
	SentAt   *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
}

type CreateReminderRequest struct {
	AnimalID string    `json:"animal_id" binding:"required,uuid"`
	Kind     string    `json:"kind" binding:"required"`
	DueAt    time.Time `json:"due_at" binding:"required"`
	Channel  string    `json:"channel" binding:"omitempty,oneof=email none"`
}
