package usecase

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidCredentials   = errors.New("no active account found with the given credentials")
	ErrInvalidToken         = errors.New("token is invalid or expired")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrMappingNotFound      = errors.New("mapping not found")
	ErrPermissionDenied     = errors.New("you do not have permission to perform this action")
	ErrAlreadyAssigned      = errors.New("this doctor is already assigned to this patient")
	ErrPatientNotAccessible = errors.New("patient id not found or does not belong to you")
)

// ValidationError carries field-keyed messages back to the client.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// isDuplicateKeyError reports a unique violation touching column. Postgres is
// matched on SQLSTATE 23505 and the constraint name, other drivers on the
// "UNIQUE constraint failed: table.column" message.
func isDuplicateKeyError(err error, column string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(column))
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") && strings.Contains(msg, "."+strings.ToLower(column))
}
