package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "ecopack_session"

// SessionClaims is the JWT payload of a session token. Subject carries the
// user id.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueSession creates a signed session token for a logged-in user.
func IssueSession(userID, username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// AuthUser validates the session cookie and stores the user identity in
// request locals.
func AuthUser(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies(SessionCookie)
		if session == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Session cookie %q not found", SessionCookie),
				Type:    "auth.session",
			}
		}

		token, err := jwt.ParseWithClaims(session, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid or expired session",
				Type:    "auth.session",
			}
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok || claims.Subject == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid session claims",
				Type:    "auth.session",
			}
		}

		c.Locals("userID", claims.Subject)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}
