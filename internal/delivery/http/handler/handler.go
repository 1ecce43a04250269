package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"healthcare-backend/internal/delivery/http/middleware"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
	"healthcare-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decodeAndValidate reads a JSON body into req and runs the DTO tags. An empty
// body decodes as {} so missing fields are reported per field. It writes the
// error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "")
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}

	return true
}

// pathID parses a uuid path variable. Anything else is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.NotFound(w, "")
		return uuid.Nil, false
	}
	return id, true
}

func requester(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return uuid.Nil, false
	}
	return userID, true
}

// writeUsecaseError maps usecase errors onto status codes and bodies.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields)
	case errors.Is(err, usecase.ErrPermissionDenied):
		response.Forbidden(w, "")
	case errors.Is(err, usecase.ErrPatientNotAccessible):
		response.Forbidden(w, "Patient ID not found or does not belong to you.")
	case errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrMappingNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "")
	case errors.Is(err, usecase.ErrAlreadyAssigned):
		response.BadRequest(w, "This doctor is already assigned to this patient.")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.Unauthorized(w, "No active account found with the given credentials")
	case errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, "Token has been revoked")
	case errors.Is(err, usecase.ErrInvalidToken):
		response.Unauthorized(w, "Token is invalid or expired")
	default:
		response.InternalServerError(w, fallback)
	}
}
