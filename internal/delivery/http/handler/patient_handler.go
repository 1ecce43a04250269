package handler

import (
	"net/http"

	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
	"healthcare-backend/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	var req dto.PatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), userID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, patient)
}

// GetMyPatients lists the requester's own patients only.
func (h *PatientHandler) GetMyPatients(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	patients, err := h.patientUsecase.GetMyPatients(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, patients)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), userID, patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	h.update(w, r, &req, req.ToPatch)
}

func (h *PatientHandler) PatchPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatchPatientRequest
	h.update(w, r, &req, func() *dto.PatchPatientRequest { return &req })
}

func (h *PatientHandler) update(w http.ResponseWriter, r *http.Request, req interface{}, patch func() *dto.PatchPatientRequest) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	// ownership is settled before the body is validated
	if err := h.patientUsecase.AuthorizeWrite(r.Context(), userID, patientID); err != nil {
		writeUsecaseError(w, err, "Failed to update patient")
		return
	}
	if !decodeAndValidate(w, r, h.validator, req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), userID, patientID, patch())
	if err != nil {
		writeUsecaseError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), userID, patientID); err != nil {
		writeUsecaseError(w, err, "Failed to delete patient")
		return
	}

	response.NoContent(w)
}
