package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type DoctorRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	ContactNumber  string `json:"contact_number" validate:"required,max=15"`
	Email          string `json:"email" validate:"required,email,max=254"`
}

// PatchDoctorRequest carries only the fields present in the body.
type PatchDoctorRequest struct {
	Name           *string `json:"name" validate:"omitnil,required,max=100"`
	Specialization *string `json:"specialization" validate:"omitnil,required,max=100"`
	ContactNumber  *string `json:"contact_number" validate:"omitnil,required,max=15"`
	Email          *string `json:"email" validate:"omitnil,required,email,max=254"`
}

func (r *DoctorRequest) ToPatch() *PatchDoctorRequest {
	return &PatchDoctorRequest{
		Name:           &r.Name,
		Specialization: &r.Specialization,
		ContactNumber:  &r.ContactNumber,
		Email:          &r.Email,
	}
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	ContactNumber  string    `json:"contact_number"`
	Email          string    `json:"email"`
	CreatedBy      string    `json:"created_by"`
}
