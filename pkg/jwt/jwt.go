package jwt

import (
	"errors"
	"time"

	"healthcare-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the subset of a user that ends up in token claims.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenID returns the jti claim.
func (c *Claims) TokenID() string {
	return c.ID
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Name: c.Name}
}

// IssuedToken is a signed token together with the jti and lifetime it was issued with.
type IssuedToken struct {
	Token   string
	TokenID string
	TTL     time.Duration
}

// TokenPair is what login and refresh hand back to the caller.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

type JWTService struct {
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// BuildClaims shapes the claim set for one token of the given type.
func (s *JWTService) BuildClaims(identity Identity, tokenType TokenType) Claims {
	now := s.now()
	return Claims{
		UserID:    identity.UserID,
		Email:     identity.Email,
		Name:      identity.Name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry(tokenType))),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

func (s *JWTService) GenerateAccessToken(identity Identity) (IssuedToken, error) {
	return s.generate(identity, AccessToken)
}

func (s *JWTService) GenerateRefreshToken(identity Identity) (IssuedToken, error) {
	return s.generate(identity, RefreshToken)
}

// GenerateTokenPair issues a fresh access/refresh pair with independent jtis.
func (s *JWTService) GenerateTokenPair(identity Identity) (*TokenPair, error) {
	access, err := s.GenerateAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := s.GenerateRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *JWTService) generate(identity Identity, tokenType TokenType) (IssuedToken, error) {
	claims := s.BuildClaims(identity, tokenType)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{
		Token:   signedToken,
		TokenID: claims.ID,
		TTL:     s.expiry(tokenType),
	}, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) expiry(tokenType TokenType) time.Duration {
	if tokenType == RefreshToken {
		return s.config.RefreshExpiry
	}
	return s.config.AccessExpiry
}

func (s *JWTService) GetAccessExpiry() time.Duration {
	return s.config.AccessExpiry
}

func (s *JWTService) GetRefreshExpiry() time.Duration {
	return s.config.RefreshExpiry
}
