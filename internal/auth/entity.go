package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carried by both token kinds. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Type TokenType `json:"type"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginInput struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type RegisterInput struct {
	UserName        string  `json:"user_name"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}
