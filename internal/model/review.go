package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	OwnerName   string    `db:"owner_name" json:"owner_name"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     string    `db:"comment" json:"comment,omitempty"`
	Response    *string   `db:"response" json:"response,omitempty"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	ClinicID  string `json:"clinic_id" binding:"required,uuid"`
	OwnerName string `json:"owner_name" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type RespondReviewRequest struct {
	Response string `json:"response" binding:"required,max=2000"`
}

type PublishReviewRequest struct {
	IsPublished bool `json:"is_published"`
}
