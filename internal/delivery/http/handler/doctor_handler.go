package handler

import (
	"net/http"

	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
	"healthcare-backend/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	var req dto.DoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), userID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, doctor)
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), userID, doctorID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, doctor)
}

// UpdateDoctor serves PUT, which requires every field.
func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.DoctorRequest
	h.update(w, r, &req, req.ToPatch)
}

// PatchDoctor serves PATCH, which changes only the fields present.
func (h *DoctorHandler) PatchDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.PatchDoctorRequest
	h.update(w, r, &req, func() *dto.PatchDoctorRequest { return &req })
}

func (h *DoctorHandler) update(w http.ResponseWriter, r *http.Request, req interface{}, patch func() *dto.PatchDoctorRequest) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	// ownership is settled before the body is validated
	if err := h.doctorUsecase.AuthorizeWrite(r.Context(), userID, doctorID); err != nil {
		writeUsecaseError(w, err, "Failed to update doctor")
		return
	}
	if !decodeAndValidate(w, r, h.validator, req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), userID, doctorID, patch())
	if err != nil {
		writeUsecaseError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), userID, doctorID); err != nil {
		writeUsecaseError(w, err, "Failed to delete doctor")
		return
	}

	response.NoContent(w)
}
