package dto

import (
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// CreateUserRequest defines the data an administrator provides when
// provisioning a new user. CompanyID is honored for SUPER_ADMIN callers only;
// ADMIN callers always provision inside their own company.
type CreateUserRequest struct {
	Username  string          `json:"username" binding:"required"`
	Password  string          `json:"password" binding:"required,min=8"`
	Name      string          `json:"name" binding:"required"`
	Email     string          `json:"email" binding:"omitempty,email"`
	CompanyID string          `json:"companyID"`
	Role      domain.UserRole `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

// RegisterUserRequest defines the data for self-service signup.
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	CompanyID string `json:"companyID" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name *string `json:"name"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID    string          `json:"userID"`
	CompanyID string          `json:"companyID"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		CompanyID: u.CompanyID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses}
}
