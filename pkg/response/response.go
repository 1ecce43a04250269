package response

import (
	"encoding/json"
	"net/http"
)

// Detail is the body of every non-validation error.
type Detail struct {
	Detail string `json:"detail"`
}

// Message is the body of action endpoints that have nothing else to return.
type Message struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	JSON(w, statusCode, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Detail{Detail: message})
}

// ValidationError writes a field-keyed error object.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, fields)
}

func BadRequest(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Invalid request body"
	}
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found."
	}
	Error(w, http.StatusNotFound, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	Error(w, http.StatusForbidden, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	Error(w, http.StatusTooManyRequests, message)
}
