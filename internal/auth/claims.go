package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued at login and parsed by the API
// middleware. Authorization decisions re-load the user record so that a
// revoked seller approval takes effect before the token expires.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
