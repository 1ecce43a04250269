package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "healthcare-backend/internal/domain/repository"
	"healthcare-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type tokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) domainRepo.TokenRepository {
	return &tokenRepository{client: client}
}

// tokenKey builds access_token:<user>:<jti> or refresh_token:<user>:<jti>.
func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (r *tokenRepository) Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (r *tokenRepository) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke deletes the key in a single DEL, so two concurrent revocations of the
// same token cannot both observe it as present.
func (r *tokenRepository) Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.client.Del(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
