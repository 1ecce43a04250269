package converter

import (
	"healthcare-backend/internal/delivery/dto"
	"healthcare-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

func UserToRegisterResponse(user *entity.User) *dto.RegisterResponse {
	return &dto.RegisterResponse{
		Message: "User registered successfully.",
		Email:   user.Email,
		Name:    user.Name,
	}
}
