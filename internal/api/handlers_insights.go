package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) GetWeeklyInsight(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	language := currentLanguage(c)
	now := time.Now().In(handler.location)
	week, known := services.GestationalWeek(user.LMP, now, handler.location)

	riskLevel := "green"
	if entry, found, err := handler.checkinService.LatestRisk(user.ID); err == nil && found {
		riskLevel = entry.Level
	}

	payload := fiber.Map{
		"insight":    services.WeeklyInsight(handler.i18n, language, week, known),
		"risk_level": riskLevel,
		"risk_label": services.RiskLabel(handler.i18n, language, riskLevel),
	}
	if known {
		payload["week"] = week
		payload["trimester"] = services.TrimesterForWeek(week)
	}
	return c.JSON(payload)
}
