package dto

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// UserResponse is the wire shape of a user.
type UserResponse struct {
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	CurrentFinesID *string   `json:"currentFinesId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LoginRequest carries user credentials for token issuance.
type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to its wire shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Name:           u.Name,
		Type:           string(u.Type),
		CurrentFinesID: u.CurrentFinesID,
		CreatedAt:      u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
