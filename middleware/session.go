package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Session is the one place handlers learn who the caller is. Anonymous
// requests get the zero value; authenticated ones carry the JWT claims.
type Session struct {
	Authenticated bool
	UserID        uuid.UUID
	Role          string
}

// CurrentSession reads the parsed JWT stashed by the Protected middleware.
// Call sites never touch the raw token or re-query the backend for the
// current user.
func CurrentSession(c *fiber.Ctx) Session {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Session{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}
	}

	idStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return Session{}
	}

	role, _ := claims["role"].(string)
	return Session{Authenticated: true, UserID: userID, Role: role}
}
