package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"procurement/middleware"
	"procurement/models"
)

const tokenTTL = 72 * time.Hour

// HandleLogin checks the operator credentials and starts a new session.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if resp := bindBody(c, &req); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if !strings.EqualFold(req.Email, h.Config.OperatorEmail) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.Config.OperatorPasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	sess := h.Sessions.Create()
	token, err := createJWT(req.Email, sess.ID)
	if err != nil {
		h.Sessions.Delete(sess.ID)
		h.log.WithError(err).Error("[AUTH] could not sign token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not sign token"})
	}

	h.log.WithField("session", sess.ID).Info("[AUTH] operator logged in")
	return c.JSON(fiber.Map{
		"accessToken": token,
		"sessionId":   sess.ID,
		"viewMode":    sess.ViewMode(),
	})
}

func createJWT(userID, sessionID string) (string, error) {
	claims := models.JwtClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret)
}
