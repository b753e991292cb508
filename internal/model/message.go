package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in the thread between a clinic and an owner. A null
// SenderUserID marks the message as owner-authored.
type Message struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ClinicID     uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	SenderUserID *uuid.UUID `db:"sender_user_id" json:"sender_user_id,omitempty"`
	Body         string     `db:"body" json:"body"`
	IsRead       bool       `db:"is_read" json:"is_read"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type CreateMessageRequest struct {
	// OwnerID is required for staff senders; ignored for OWNER callers,
	// whose own scope fixes the thread.
	OwnerID string `json:"owner_id" binding:"omitempty,uuid"`
	Body    string `json:"body" binding:"required,max=4000"`
}

// Conversation is the staff inbox row: one per owner with thread summary.
type Conversation struct {
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	OwnerName   string    `db:"owner_name" json:"owner_name"`
	LastMessage string    `db:"last_message" json:"last_message"`
	LastAt      time.Time `db:"last_at" json:"last_at"`
	UnreadCount int       `db:"unread_count" json:"unread_count"`
}
