package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AssignDoctorRequest struct {
	Patient string `json:"patient" validate:"required,uuid"`
	Doctor  string `json:"doctor" validate:"required,uuid"`
}

// Response DTOs

// MappingResponse shows the patient and doctor by name.
type MappingResponse struct {
	ID         uuid.UUID `json:"id"`
	Patient    string    `json:"patient"`
	Doctor     string    `json:"doctor"`
	AssignedAt time.Time `json:"assigned_at"`
}
