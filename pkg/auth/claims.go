package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims represents the typed JWT issued to clients. UserID
// duplicates the subject under the "id" key older clients decode.
type AccessTokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
