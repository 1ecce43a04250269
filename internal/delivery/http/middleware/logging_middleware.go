package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestLogKey contextKey = "request_log"

// requestLog is filled in by inner middleware so the access line can name the requester.
type requestLog struct {
	userID uuid.UUID
}

func setRequester(ctx context.Context, userID uuid.UUID) {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		rl.userID = userID
	}
}

type LoggingMiddleware struct {
	log *logrus.Logger
}

func NewLoggingMiddleware(log *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{log: log}
}

func (m *LoggingMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		rl := &requestLog{}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestLogKey, rl)))

		fields := logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   remoteHost(r),
		}
		if rl.userID != uuid.Nil {
			fields["user_id"] = rl.userID.String()
		}

		entry := m.log.WithFields(fields)
		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case rec.status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	})
}
