package api

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/service"
)

const currentUserKey = "current_user"

// JWTMiddleware validates the bearer token and stashes the parsed claims
// under echo's default "user" key.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
}

// LoadUser resolves the token's user from the store on every request, so a
// revoked seller approval or role change takes effect immediately instead
// of at token expiry.
func LoadUser(userService *service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(401, map[string]string{"error": "missing token", "kind": "unauthorized"})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return c.JSON(401, map[string]string{"error": "malformed claims", "kind": "unauthorized"})
			}

			user, err := userService.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(401, map[string]string{"error": "unknown user", "kind": "unauthorized"})
			}

			// logout revokes the session even before the token expires
			if err := userService.ValidateSession(c.Request().Context(), user.Email, token.Raw); err != nil {
				return c.JSON(401, map[string]string{"error": "session revoked", "kind": "unauthorized"})
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// currentUser returns the loaded user, or nil outside LoadUser's reach.
// Authorization treats nil as an anonymous actor and denies it.
func currentUser(c echo.Context) *entity.User {
	user, _ := c.Get(currentUserKey).(*entity.User)
	return user
}
