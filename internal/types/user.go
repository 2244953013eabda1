package types

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the public view of an account.
type User struct {
	ID        string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Email     string    `json:"email" example:"john.doe@example.com"`
	Name      string    `json:"name" example:"John"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	u.Interests = slices.Clone(u.Interests)
	if u.Interests == nil {
		u.Interests = []string{}
	}
	return u
}

// UserAuth is a user together with its credential hash. It never leaves the
// auth package boundary.
type UserAuth struct {
	User
	PasswordHash string `json:"-"`
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email" example:"john.doe@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret123"`
	Name     string `json:"name" validate:"required" example:"John"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"john.doe@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJI..."`
	TokenType   string `json:"token_type" example:"bearer"`
	User        User   `json:"user"`
}

// Claims are the custom claims carried by the access token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	jwt.RegisteredClaims
}
