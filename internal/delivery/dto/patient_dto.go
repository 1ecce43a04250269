package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type PatientRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
}

type PatchPatientRequest struct {
	Name        *string `json:"name" validate:"omitnil,required,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitnil,required,datetime=2006-01-02"`
	Address     *string `json:"address" validate:"omitnil,required"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,required,max=15"`
}

func (r *PatientRequest) ToPatch() *PatchPatientRequest {
	return &PatchPatientRequest{
		Name:        &r.Name,
		DateOfBirth: &r.DateOfBirth,
		Address:     &r.Address,
		PhoneNumber: &r.PhoneNumber,
	}
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	CreatedBy   string    `json:"created_by"`
}
