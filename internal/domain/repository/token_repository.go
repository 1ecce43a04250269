package repository

import (
	"context"
	"time"

	"healthcare-backend/pkg/jwt"

	"github.com/google/uuid"
)

// TokenRepository is the server-side whitelist of issued tokens. A token whose
// entry is missing is treated as revoked even if its signature is still valid.
type TokenRepository interface {
	Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	// Revoke removes the entry and reports whether it was still present.
	Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
}
