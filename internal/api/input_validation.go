package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pregoway/pregoway/internal/services"
)

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}

	email, password, err := services.NormalizeCredentialsInput(credentials.Email, credentials.Password)
	if err != nil {
		return credentialsInput{}, err
	}
	credentials.Email = email
	credentials.Password = password
	credentials.ConfirmPassword = strings.TrimSpace(credentials.ConfirmPassword)
	credentials.RememberMe = credentials.RememberMe || parseBoolValue(c.FormValue("remember_me"))

	return credentials, nil
}

func validateRegistrationCredentials(credentials credentialsInput) string {
	if err := services.ValidatePasswordStrength(credentials.Password); err != nil {
		return "password must be at least 8 characters with upper, lower and digit"
	}
	if credentials.ConfirmPassword != "" && credentials.ConfirmPassword != credentials.Password {
		return "passwords do not match"
	}
	return ""
}

func parseDayValue(raw string, location *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
