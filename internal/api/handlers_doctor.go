package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) GetRoster(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	roster, err := handler.doctorService.Roster(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load roster")
	}
	return c.JSON(fiber.Map{"patients": roster})
}

func (handler *Handler) GetDashboardStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := handler.doctorService.Stats(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	return c.JSON(fiber.Map{"stats": stats})
}

func (handler *Handler) GetPanelAnalytics(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	analytics, err := handler.doctorService.Analytics(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}

	language := currentLanguage(c)
	insights := []string{}
	if analytics.ByRisk[models.RiskStatusHigh] > 0 {
		insights = append(insights, handler.i18n.Translate(language, "panel.insight.high_risk"))
	}
	if analytics.ByTrimester[3] > 0 {
		insights = append(insights, handler.i18n.Translate(language, "panel.insight.third_trimester"))
	}
	if len(insights) == 0 {
		insights = append(insights, handler.i18n.Translate(language, "panel.insight.steady"))
	}

	return c.JSON(fiber.Map{"analytics": analytics, "insights": insights})
}

func (handler *Handler) GetPatientDetail(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	patientID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid patient id")
	}

	detail, err := handler.doctorService.PatientDetail(user.ID, patientID, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrLinkNotActive):
			return apiError(c, fiber.StatusForbidden, "no active care link with this patient")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to load patient")
		}
	}
	return c.JSON(fiber.Map{"patient": detail})
}
