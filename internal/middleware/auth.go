package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ErrInvalidSession is returned when session token verification fails
var ErrInvalidSession = errors.New("invalid session token")

// adminSubjectKey is the echo context key for the verified admin subject
const adminSubjectKey = "admin_subject"

// SessionVerifier checks an admin session token and returns its subject.
// Issuing tokens (the login flow) happens outside this service; the only
// in-scope concern is whether a session is present and valid.
type SessionVerifier interface {
	Verify(token string) (subject string, err error)
}

// JWTSessionVerifier verifies HS256-signed session tokens with a shared
// secret
type JWTSessionVerifier struct {
	secret []byte
}

// NewJWTSessionVerifier creates a verifier for the given shared secret
func NewJWTSessionVerifier(secret string) *JWTSessionVerifier {
	return &JWTSessionVerifier{secret: []byte(secret)}
}

// Verify implements SessionVerifier
func (v *JWTSessionVerifier) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidSession
	}
	return subject, nil
}

// AuthMiddleware gates the privileged admin surface on session presence
type AuthMiddleware struct {
	verifier SessionVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware. The verifier is injected
// so tests can substitute a fake session state.
func NewAuthMiddleware(verifier SessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate returns an Echo middleware that validates the bearer session
// token
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subject, err := m.verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(adminSubjectKey, subject)
			return next(c)
		}
	}
}

// GetAdminSubject returns the verified admin subject, or "" when the request
// carries no valid session
func GetAdminSubject(c echo.Context) string {
	subject, _ := c.Get(adminSubjectKey).(string)
	return subject
}
