package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) RecordMetric(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := metricInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	metric, err := handler.metricsService.Record(user.ID, input.Type, input.Value, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, services.ErrUnknownMetricType) {
			return apiError(c, fiber.StatusBadRequest, "unknown metric type")
		}
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"metric": metric})
}

func (handler *Handler) GetMetricHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := parseLimitQuery(c, defaultHistoryLimit, maxHistoryLimit)
	metrics, err := handler.metricsService.History(user.ID, c.Params("type"), limit)
	if err != nil {
		if errors.Is(err, services.ErrUnknownMetricType) {
			return apiError(c, fiber.StatusBadRequest, "unknown metric type")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load metrics")
	}
	return c.JSON(fiber.Map{"metrics": metrics})
}

func (handler *Handler) GetLatestMetric(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	metric, found, err := handler.metricsService.Latest(user.ID, c.Params("type"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownMetricType) {
			return apiError(c, fiber.StatusBadRequest, "unknown metric type")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load metric")
	}
	if !found {
		return c.JSON(fiber.Map{"metric": nil})
	}
	return c.JSON(fiber.Map{"metric": metric})
}
