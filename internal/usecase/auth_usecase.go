package usecase

import (
	"context"
	"strings"

	"healthcare-backend/internal/converter"
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
	"healthcare-backend/internal/domain/repository"
	"healthcare-backend/internal/service"
	"healthcare-backend/pkg/jwt"
	"healthcare-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgEmailTaken = "A user with this email already exists."

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	tokenRepo    repository.TokenRepository
	jwtService   *jwt.JWTService
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Password != req.Password2 {
		return nil, fieldError("password2", "Passwords must match.")
	}

	if problems := validator.ValidatePassword(req.Password); len(problems) > 0 {
		return nil, fieldError("password", strings.Join(problems, " "))
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.userRepo.ExistsByEmail(ctx, tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, err
	}
	if exists {
		return nil, fieldError("email", msgEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		// the login handle is the email address
		Username: req.Email,
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		IsActive: true,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") || isDuplicateKeyError(err, "username") {
			return nil, fieldError("email", msgEmailTaken)
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToRegisterResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// RefreshToken redeems a refresh token once. The old token is deleted from the
// whitelist before the new pair is issued, so a replay fails with ErrTokenRevoked.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.Refresh)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	revoked, err := u.tokenRepo.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID())
	if err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return nil, err
	}
	if !revoked {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the current access token and, when given, a refresh token
// belonging to the same user. The refresh token is checked first so a bad one
// leaves the session untouched.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	var refreshID string
	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
			return ErrInvalidToken
		}
		refreshID = claims.TokenID()
	}

	if _, err := u.tokenRepo.Revoke(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshID == "" {
		return nil
	}

	if _, err := u.tokenRepo.Revoke(ctx, jwt.RefreshToken, userID, refreshID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(jwt.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		u.log.Warnf("Failed to generate tokens: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, jwt.AccessToken, user.ID, pair.Access.TokenID, pair.Access.TTL); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.Store(ctx, jwt.RefreshToken, user.ID, pair.Refresh.TokenID, pair.Refresh.TTL); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		Access:  pair.Access.Token,
		Refresh: pair.Refresh.Token,
	}, nil
}
