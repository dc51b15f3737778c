package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pregoway/pregoway/internal/models"
)

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		if bearer := bearerToken(c); bearer != "" {
			rawToken = bearer
		}
	}
	if rawToken == "" {
		return nil, errors.New("missing auth token")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals(contextUserKey, user)
	c.Locals(contextLanguageKey, handler.requestLanguage(c, user))

	if requiresOnboarding(user) && !isOnboardingExemptPath(c.Path()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "onboarding required"})
	}

	return c.Next()
}

func (handler *Handler) PatientOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user.Role != models.RolePatient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "patient account required"})
	}
	return c.Next()
}

func (handler *Handler) DoctorOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user.Role != models.RoleDoctor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "doctor account required"})
	}
	return c.Next()
}

func requiresOnboarding(user *models.User) bool {
	return user.Role == models.RolePatient && !user.OnboardingCompleted
}

// Onboarding, profile and logout stay reachable so a fresh patient can finish
// signing up or leave.
func isOnboardingExemptPath(path string) bool {
	cleanPath := strings.TrimSpace(path)
	switch cleanPath {
	case "/api/v1/auth/logout", "/api/v1/onboarding/complete", "/api/v1/profile":
		return true
	}
	return false
}

func (handler *Handler) requestLanguage(c *fiber.Ctx, user *models.User) string {
	if user != nil && strings.TrimSpace(user.Language) != "" {
		return handler.i18n.NormalizeLanguage(user.Language)
	}
	if cookie := strings.TrimSpace(c.Cookies(languageCookieName)); cookie != "" {
		return handler.i18n.NormalizeLanguage(cookie)
	}
	return handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
}
