package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) userPayload(user *models.User) fiber.Map {
	now := time.Now().In(handler.location)
	payload := fiber.Map{
		"id":                   user.ID,
		"email":                user.Email,
		"name":                 user.Name,
		"role":                 user.Role,
		"language":             user.Language,
		"risk_status":          user.RiskStatus,
		"onboarding_completed": user.OnboardingCompleted,
	}

	if user.LMP != nil {
		payload["lmp"] = user.LMP.Format("2006-01-02")
		payload["due_date"] = services.DueDate(*user.LMP, handler.location).Format("2006-01-02")
		payload["days_to_go"] = services.DaysToGo(*user.LMP, now, handler.location)
	}
	if week, known := services.GestationalWeek(user.LMP, now, handler.location); known {
		payload["current_week"] = week
		payload["trimester"] = services.TrimesterForWeek(week)
	}

	return payload
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	// Persist week drift so doctor views read the same number.
	if err := handler.profileService.RefreshCurrentWeek(user, time.Now().In(handler.location)); err != nil {
		handler.logger.Error().Err(err).Uint("user_id", user.ID).Msg("refresh current week")
	}

	return c.JSON(fiber.Map{"user": handler.userPayload(user)})
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	update := services.ProfileUpdate{Name: input.Name, Language: input.Language}
	if input.LMP != nil && strings.TrimSpace(*input.LMP) != "" {
		parsed, err := parseDayValue(*input.LMP, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "lmp must be YYYY-MM-DD")
		}
		update.LMP = &parsed
	}
	if update.Language != nil {
		normalized := handler.i18n.NormalizeLanguage(*update.Language)
		update.Language = &normalized
	}

	updated, err := handler.profileService.UpdateProfile(user.ID, update, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLMPInFuture):
			return apiError(c, fiber.StatusBadRequest, "lmp cannot be in the future")
		case errors.Is(err, services.ErrLMPTooOld):
			return apiError(c, fiber.StatusBadRequest, "lmp is too far in the past")
		case errors.Is(err, services.ErrNameRequired):
			return apiError(c, fiber.StatusBadRequest, "name is required")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return c.JSON(fiber.Map{"user": handler.userPayload(&updated)})
}

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	updated, err := handler.profileService.CompleteOnboarding(user.ID, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, services.ErrOnboardingLMP) {
			return apiError(c, fiber.StatusBadRequest, "set your last menstrual period date first")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to complete onboarding")
	}

	return c.JSON(fiber.Map{"user": handler.userPayload(&updated)})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(input.Password))); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "password is incorrect")
	}

	if err := handler.repos.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}

	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
