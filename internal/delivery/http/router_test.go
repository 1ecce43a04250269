package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"healthcare-backend/config"
	"healthcare-backend/internal/delivery/http/handler"
	"healthcare-backend/internal/delivery/http/middleware"
	"healthcare-backend/internal/repository"
	"healthcare-backend/internal/service"
	"healthcare-backend/internal/testutil"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/jwt"
	"healthcare-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: 10 * time.Minute, RefreshExpiry: 24 * time.Hour})
	tokens := testutil.NewMemoryTokenRepository()
	v := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	mappingRepo := repository.NewMappingRepository()
	auditRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditRepo)

	reg := prometheus.NewRegistry()

	router := NewRouter(
		handler.NewAuthHandler(usecase.NewAuthUsecase(db, log, userRepo, tokens, jwtService, auditService), v),
		handler.NewDoctorHandler(usecase.NewDoctorUsecase(db, log, doctorRepo, mappingRepo, auditService), v),
		handler.NewPatientHandler(usecase.NewPatientUsecase(db, log, patientRepo, mappingRepo, auditService), v),
		handler.NewMappingHandler(usecase.NewMappingUsecase(db, log, mappingRepo, patientRepo, doctorRepo, auditService), v),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditRepo)),
		middleware.NewAuthMiddleware(jwtService, tokens, log),
		middleware.NewCORSMiddleware([]string{"http://localhost:3000"}),
		middleware.NewRateLimitMiddleware(nil, log, config.RateLimitConfig{}),
		middleware.NewMetricsMiddleware(reg),
		middleware.NewLoggingMiddleware(log),
		reg,
	)
	return router.Setup()
}

type client struct {
	t      *testing.T
	srv    http.Handler
	access string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.access != "" {
		req.Header.Set("Authorization", "Bearer "+c.access)
	}

	rec := httptest.NewRecorder()
	c.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signUp registers and logs in a user, returning an authenticated client.
func signUp(t *testing.T, srv http.Handler, email, name string) *client {
	t.Helper()
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "Abc12345", "password2": "Abc12345",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "Abc12345"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c.access = decode[map[string]string](t, rec)["access"]
	return c
}

func createPatient(c *client, name string) string {
	rec := c.do(http.MethodPost, "/api/patients", map[string]string{
		"name": name, "date_of_birth": "1990-01-02", "address": "1 Main St", "phone_number": "555-0100",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]interface{}](c.t, rec)["id"].(string)
}

func createDoctor(c *client, email, contact string) string {
	rec := c.do(http.MethodPost, "/api/doctors", map[string]string{
		"name": "House", "specialization": "Diagnostics", "contact_number": contact, "email": email,
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]interface{}](c.t, rec)["id"].(string)
}

func TestRegister_ResponseBody(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@x.com", "password": "Abc12345", "password2": "Abc12345",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully.","email":"a@x.com","name":"A"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "A", "email": "b@x.com", "password": "Abc12345", "password2": "Abc12346",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"password2":"Passwords must match."}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@x.com", "password": "Abc12345", "password2": "Abc12345",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"email":"A user with this email already exists."}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/register", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[map[string]string](t, rec)
	assert.Equal(t, "This field is required.", fields["email"])
	assert.Equal(t, "This field is required.", fields["password2"])
}

func TestLogin_AndTokenLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := signUp(t, srv, "a@x.com", "A")

	rec := c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", decode[map[string]string](t, rec)["email"])

	anon := &client{t: t, srv: srv}
	rec = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"No active account found with the given credentials"}`, rec.Body.String())

	rec = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "Abc12345"})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[map[string]string](t, rec)

	rec = anon.do(http.MethodPost, "/api/auth/token/refresh", map[string]string{"refresh": pair["refresh"]})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decode[map[string]string](t, rec)
	assert.NotEmpty(t, rotated["access"])

	rec = anon.do(http.MethodPost, "/api/auth/token/refresh", map[string]string{"refresh": pair["refresh"]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Token has been revoked"}`, rec.Body.String())

	c.access = rotated["access"]
	rec = c.do(http.MethodPost, "/api/auth/logout", map[string]string{"refresh": rotated["refresh"]})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_MalformedBodyRejected(t *testing.T) {
	srv := newTestServer(t)
	c := signUp(t, srv, "a@x.com", "A")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"refresh":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.access)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid request body"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// no body at all is a plain logout
	rec = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, srv: srv}

	for _, path := range []string{"/api/patients", "/api/doctors", "/api/mappings/list", "/api/audit-logs"} {
		rec := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String())
	}
}

func TestPatients_ForeignWriteForbiddenReadAllowed(t *testing.T) {
	srv := newTestServer(t)
	u1 := signUp(t, srv, "u1@x.com", "U1")
	u2 := signUp(t, srv, "u2@x.com", "U2")

	id := createPatient(u1, "Alice")

	rec := u2.do(http.MethodDelete, "/api/patients/"+id, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"You do not have permission to perform this action."}`, rec.Body.String())

	rec = u2.do(http.MethodPatch, "/api/patients/"+id, map[string]string{"address": "elsewhere"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = u2.do(http.MethodGet, "/api/patients/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = u2.do(http.MethodGet, "/api/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = u1.do(http.MethodGet, "/api/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]interface{}](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "u1@x.com", list[0]["created_by"])
	assert.Equal(t, "1990-01-02", list[0]["date_of_birth"])

	rec = u1.do(http.MethodPut, "/api/patients/"+id, map[string]string{"name": "Alicia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "date_of_birth")

	rec = u1.do(http.MethodPatch, "/api/patients/"+id, map[string]string{"name": "Alicia"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alicia", decode[map[string]interface{}](t, rec)["name"])

	rec = u1.do(http.MethodDelete, "/api/patients/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = u1.do(http.MethodGet, "/api/patients/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
}

func TestDoctors_SharedListOwnerWrites(t *testing.T) {
	srv := newTestServer(t)
	u1 := signUp(t, srv, "u1@x.com", "U1")
	u2 := signUp(t, srv, "u2@x.com", "U2")

	id := createDoctor(u1, "house@x.com", "555-1")

	rec := u2.do(http.MethodGet, "/api/doctors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)

	rec = u2.do(http.MethodPut, "/api/doctors/"+id, map[string]string{
		"name": "W", "specialization": "S", "contact_number": "555-9", "email": "w@x.com",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = u1.do(http.MethodPost, "/api/doctors", map[string]string{
		"name": "X", "specialization": "S", "contact_number": "555-1", "email": "x@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "contact_number")

	rec = u1.do(http.MethodDelete, "/api/doctors/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestForeignUpdate_ForbiddenWhateverTheBody(t *testing.T) {
	srv := newTestServer(t)
	u1 := signUp(t, srv, "u1@x.com", "U1")
	u2 := signUp(t, srv, "u2@x.com", "U2")

	patientID := createPatient(u1, "Alice")
	doctorID := createDoctor(u1, "house@x.com", "555-1")

	for _, tt := range []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPut, "/api/patients/" + patientID, map[string]string{"name": "X"}},
		{http.MethodPut, "/api/patients/" + patientID, map[string]string{}},
		{http.MethodPatch, "/api/patients/" + patientID, map[string]string{"date_of_birth": "yesterday"}},
		{http.MethodPut, "/api/doctors/" + doctorID, map[string]string{}},
		{http.MethodPatch, "/api/doctors/" + doctorID, map[string]string{"email": "not-an-email"}},
	} {
		rec := u2.do(tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s %v", tt.method, tt.path, tt.body)
		assert.JSONEq(t, `{"detail":"You do not have permission to perform this action."}`, rec.Body.String())
	}

	// the owner still gets field errors
	rec := u1.do(http.MethodPut, "/api/doctors/"+doctorID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "contact_number")
}

func TestMappings_AssignListRemove(t *testing.T) {
	srv := newTestServer(t)
	u1 := signUp(t, srv, "u1@x.com", "U1")
	u2 := signUp(t, srv, "u2@x.com", "U2")

	patientID := createPatient(u1, "Alice")
	foreignID := createPatient(u2, "Bob")
	doctorID := createDoctor(u2, "house@x.com", "555-1")

	rec := u1.do(http.MethodPost, "/api/mappings", map[string]string{"patient": patientID, "doctor": doctorID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	mapping := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Alice", mapping["patient"])
	assert.Equal(t, "House", mapping["doctor"])
	assert.NotEmpty(t, mapping["assigned_at"])

	rec = u1.do(http.MethodPost, "/api/mappings", map[string]string{"patient": patientID, "doctor": doctorID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"This doctor is already assigned to this patient."}`, rec.Body.String())

	rec = u1.do(http.MethodPost, "/api/mappings", map[string]string{"patient": foreignID, "doctor": doctorID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"patient":"You can only assign a doctor to a patient you created."}`, rec.Body.String())

	rec = u1.do(http.MethodGet, "/api/mappings/list", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)

	rec = u1.do(http.MethodGet, "/api/mappings/"+patientID+"/doctors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)

	rec = u1.do(http.MethodGet, "/api/mappings/"+foreignID+"/doctors", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Patient ID not found or does not belong to you."}`, rec.Body.String())

	mappingID := mapping["id"].(string)
	rec = u2.do(http.MethodDelete, "/api/mappings/"+mappingID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"You do not have permission to delete this assignment."}`, rec.Body.String())

	rec = u1.do(http.MethodDelete, "/api/mappings/"+mappingID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = u1.do(http.MethodDelete, "/api/mappings/"+mappingID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
}

func TestAuditLogs_AndOperationalRoutes(t *testing.T) {
	srv := newTestServer(t)
	u1 := signUp(t, srv, "u1@x.com", "U1")
	createPatient(u1, "Alice")

	rec := u1.do(http.MethodGet, "/api/audit-logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trail := decode[map[string]interface{}](t, rec)
	assert.EqualValues(t, 2, trail["total"])

	anon := &client{t: t, srv: srv}
	rec = anon.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = anon.do(http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthcare_http_requests_total")
}
