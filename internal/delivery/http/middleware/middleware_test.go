package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"healthcare-backend/config"
	"healthcare-backend/internal/testutil"
	"healthcare-backend/pkg/jwt"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	tokens := testutil.NewMemoryTokenRepository()
	mw := NewAuthMiddleware(jwtService, tokens, quietLogger())

	identity := jwt.Identity{UserID: uuid.New(), Email: "a@x.com", Name: "A"}
	pair, err := jwtService.GenerateTokenPair(identity)
	require.NoError(t, err)
	require.NoError(t, tokens.Store(context.Background(), jwt.AccessToken, identity.UserID, pair.Access.TokenID, time.Minute))

	var seen uuid.UUID
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := call("Bearer " + pair.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, identity.UserID, seen)

	rec = call("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+pair.Refresh.Token).Code)

	_, err = tokens.Revoke(context.Background(), jwt.AccessToken, identity.UserID, pair.Access.TokenID)
	require.NoError(t, err)
	rec = call("Bearer " + pair.Access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Token has been revoked"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	handler := NewCORSMiddleware([]string{"http://localhost:3000"}).Handle(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/patients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mw := NewRateLimitMiddleware(client, quietLogger(), config.RateLimitConfig{Limit: 2, Window: time.Minute})
	handler := mw.Limit(okHandler)
	key := "ratelimit:/api/auth/login:10.0.0.1"
	hash := incrWindowScript.Hash()

	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(1), int64(60000)})
	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(2), int64(59000)})
	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(3), int64(58500)})
	mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetErr(errors.New("connection refused"))

	codes := make([]int, 0, 4)
	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			last = rec
		}
	}

	assert.Equal(t, []int{200, 200, 429, 200}, codes)
	require.NotNil(t, last)
	assert.Equal(t, "59", last.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_RotatingForwardedForSharesPeerBucket(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mw := NewRateLimitMiddleware(client, quietLogger(), config.RateLimitConfig{Limit: 2, Window: time.Minute})
	handler := mw.Limit(okHandler)
	key := "ratelimit:/api/auth/login:10.0.0.1"
	hash := incrWindowScript.Hash()

	for i := 1; i <= 4; i++ {
		mock.ExpectEvalSha(hash, []string{key}, int64(60000)).SetVal([]interface{}{int64(i), int64(60000)})
	}

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 429, 429}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrustedProxies_ClientIP(t *testing.T) {
	proxies := parseTrustedProxies(quietLogger(), []string{"10.0.0.0/24", "192.168.1.1", "bogus"})
	require.Len(t, proxies, 2)

	tests := []struct {
		name      string
		peer      string
		forwarded string
		realIP    string
		want      string
	}{
		{"untrusted peer ignores headers", "203.0.113.9:1234", "1.2.3.4", "5.6.7.8", "203.0.113.9"},
		{"trusted peer without headers", "10.0.0.5:1234", "", "", "10.0.0.5"},
		{"trusted peer forwards client", "10.0.0.5:1234", "198.51.100.7", "", "198.51.100.7"},
		{"spoofed leftmost hop is skipped", "10.0.0.5:1234", "1.2.3.4, 198.51.100.7", "", "198.51.100.7"},
		{"chained trusted proxies", "192.168.1.1:80", "198.51.100.7, 10.0.0.8", "", "198.51.100.7"},
		{"real ip from trusted peer", "192.168.1.1:80", "", "198.51.100.7", "198.51.100.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = tt.peer
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, proxies.clientIP(req))
		})
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	mw := NewRateLimitMiddleware(nil, quietLogger(), config.RateLimitConfig{Limit: 0})
	rec := httptest.NewRecorder()
	mw.Limit(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetricsMiddleware(reg)

	r := mux.NewRouter()
	r.Use(metrics.Handle)
	r.HandleFunc("/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/"+uuid.NewString(), nil))

	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "/patients/{id}", "404")))
	assert.Equal(t, float64(0), promtestutil.ToFloat64(metrics.inFlight.WithLabelValues("GET", "/patients/{id}")))
}
