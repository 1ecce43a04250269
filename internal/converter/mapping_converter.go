package converter

import (
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
)

// MappingToResponse replaces the patient and doctor references with their names.
// Both associations must be loaded.
func MappingToResponse(mapping *entity.PatientDoctorMapping) *dto.MappingResponse {
	if mapping == nil {
		return nil
	}

	return &dto.MappingResponse{
		ID:         mapping.ID,
		Patient:    mapping.Patient.Name,
		Doctor:     mapping.Doctor.Name,
		AssignedAt: mapping.AssignedAt,
	}
}

func MappingsToResponses(mappings []entity.PatientDoctorMapping) []dto.MappingResponse {
	responses := make([]dto.MappingResponse, len(mappings))
	for i := range mappings {
		responses[i] = *MappingToResponse(&mappings[i])
	}
	return responses
}
