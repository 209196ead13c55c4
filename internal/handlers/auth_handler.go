package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/middleware"
)

// AuthHandler exchanges the configured passcode for a session token.
type AuthHandler struct {
	passcodeHash []byte
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler. The passcode is kept only as a
// bcrypt hash. An empty passcode leaves unlocking disabled.
func NewAuthHandler(passcode, jwtSecret string, tokenTTL time.Duration) (*AuthHandler, error) {
	h := &AuthHandler{jwtSecret: jwtSecret, tokenTTL: tokenTTL}
	if passcode == "" {
		return h, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	h.passcodeHash = hash
	return h, nil
}

// UnlockRequest represents the unlock request payload
type UnlockRequest struct {
	Passcode string `json:"passcode" binding:"required,max=128"`
}

// UnlockResponse carries a session token for the protected routes
type UnlockResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Unlock handles passcode entry
// @Summary     Unlock
// @Description Exchange the configured passcode for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body UnlockRequest true "Passcode"
// @Success     200 {object} UnlockResponse "Session token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong passcode"
// @Failure     404 {object} ErrorResponse "No passcode configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /unlock [post]
func (h *AuthHandler) Unlock(c *gin.Context) {
	if h.passcodeHash == nil {
		respondWithError(c, apperrors.ErrPasscodeNotConfigured)
		return
	}

	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passcodeHash, []byte(req.Passcode)); err != nil {
		logger.Get().Warnw("rejected passcode", "client_ip", c.ClientIP())
		respondWithError(c, apperrors.ErrInvalidPasscode)
		return
	}

	token, expiresAt, err := middleware.GenerateSessionToken(h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, UnlockResponse{AccessToken: token, ExpiresAt: expiresAt})
}
