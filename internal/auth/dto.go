package auth

import "github.com/angelmondragon/accounts-service/internal/users"

// RegisterRequest is the public registration payload. Length and format
// constraints are enforced by the user store.
type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Location   string `json:"location,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse pairs the signed-in user with a bearer token.
type LoginResponse struct {
	Result *users.UserDTO `json:"result"`
	Token  string         `json:"token"`
}
