package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "pocketbook/internal/errors"
)

const (
	sessionIssuer  = "pocketbook-api"
	sessionSubject = "owner"

	// PasscodeHeader lets scripts present the passcode directly instead of
	// unlocking for a token first.
	PasscodeHeader = "X-Passcode"
)

// SessionClaims represents the claims in a session JWT.
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token valid for ttl and returns it
// with its expiry.
func GenerateSessionToken(secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &SessionClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   sessionSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateSessionToken parses and validates a session token.
func ValidateSessionToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(sessionIssuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.TokenType != "access" {
		return nil, fmt.Errorf("token is not a session token")
	}
	return claims, nil
}

// PasscodeGate protects a route group when a passcode is configured. A
// request passes with either a valid "Bearer" session token or the
// passcode itself in the X-Passcode header. With no passcode configured
// every request passes.
func PasscodeGate(passcode, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passcode == "" {
			c.Next()
			return
		}

		if key := c.GetHeader(PasscodeHeader); key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(passcode)) == 1 {
				c.Next()
				return
			}
			writeError(c, apperrors.ErrInvalidPasscode)
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		if _, err := ValidateSessionToken(secret, parts[1]); err != nil {
			writeError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}
		c.Next()
	}
}
