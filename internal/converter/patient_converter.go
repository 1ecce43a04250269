package converter

import (
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          patient.ID,
		Name:        patient.Name,
		DateOfBirth: patient.DateOfBirth.Format(entity.DateLayout),
		Address:     patient.Address,
		PhoneNumber: patient.PhoneNumber,
		CreatedBy:   patient.CreatedBy.String(),
	}
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
