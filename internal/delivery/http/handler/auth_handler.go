package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/delivery/http/middleware"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
	"healthcare-backend/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register with name, email and a confirmed password. The email becomes the username.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, resp)
}

// Login handles user login
// @Summary Obtain a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} response.Detail
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, tokens)
}

// RefreshToken handles token refresh
// @Summary Rotate a refresh token
// @Description Returns a new pair. The presented refresh token cannot be used again.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} response.Detail
// @Router /auth/token/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the current access token and, if given, the refresh token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Message
// @Failure 401 {object} response.Detail
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	// body is optional
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID, req.Refresh); err != nil {
		writeUsecaseError(w, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, response.Message{Message: "Logout successful."})
}

// GetCurrentUser handles getting current user info
// @Summary Get current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} response.Detail
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get user info")
		return
	}

	response.Success(w, http.StatusOK, user)
}
