package handler

import (
	"errors"
	"net/http"

	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
	"healthcare-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MappingHandler struct {
	mappingUsecase usecase.MappingUsecase
	validator      *validator.CustomValidator
}

func NewMappingHandler(mappingUsecase usecase.MappingUsecase, validator *validator.CustomValidator) *MappingHandler {
	return &MappingHandler{
		mappingUsecase: mappingUsecase,
		validator:      validator,
	}
}

func (h *MappingHandler) AssignDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	var req dto.AssignDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	mapping, err := h.mappingUsecase.AssignDoctor(r.Context(), userID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to assign doctor")
		return
	}

	response.Success(w, http.StatusCreated, mapping)
}

func (h *MappingHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	mappings, err := h.mappingUsecase.ListMappings(r.Context(), userID, nil)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get mappings")
		return
	}

	response.Success(w, http.StatusOK, mappings)
}

// ListPatientDoctors lists the doctors assigned to one of the requester's patients.
func (h *MappingHandler) ListPatientDoctors(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	// an unparsable id can't be one of the requester's patients either
	patientID, err := uuid.Parse(mux.Vars(r)["patient_id"])
	if err != nil {
		writeUsecaseError(w, usecase.ErrPatientNotAccessible, "")
		return
	}

	mappings, err := h.mappingUsecase.ListMappings(r.Context(), userID, &patientID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get mappings")
		return
	}

	response.Success(w, http.StatusOK, mappings)
}

func (h *MappingHandler) RemoveMapping(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	mappingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.mappingUsecase.RemoveMapping(r.Context(), userID, mappingID); err != nil {
		if errors.Is(err, usecase.ErrPermissionDenied) {
			response.Forbidden(w, "You do not have permission to delete this assignment.")
			return
		}
		writeUsecaseError(w, err, "Failed to remove mapping")
		return
	}

	response.NoContent(w)
}
