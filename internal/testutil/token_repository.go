package testutil

import (
	"context"
	"sync"
	"time"

	"healthcare-backend/pkg/jwt"

	"github.com/google/uuid"
)

// MemoryTokenRepository is an in-process token whitelist. TTLs are ignored.
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]time.Duration)}
}

func memoryKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (r *MemoryTokenRepository) Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[memoryKey(tokenType, userID, tokenID)] = ttl
	return nil
}

func (r *MemoryTokenRepository) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[memoryKey(tokenType, userID, tokenID)]
	return ok, nil
}

func (r *MemoryTokenRepository) Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey(tokenType, userID, tokenID)
	_, ok := r.tokens[key]
	delete(r.tokens, key)
	return ok, nil
}

// Len reports how many tokens are currently whitelisted.
func (r *MemoryTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
