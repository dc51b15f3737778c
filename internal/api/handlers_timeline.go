package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) GetTimeline(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	events, err := handler.timelineService.LoadOrInitialize(user.ID, user.LMP, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load timeline")
	}

	return c.JSON(fiber.Map{"events": events})
}

func (handler *Handler) CompleteTimelineEvent(c *fiber.Ctx) error {
	return handler.setTimelineEventStatus(c, true)
}

func (handler *Handler) ReopenTimelineEvent(c *fiber.Ctx) error {
	return handler.setTimelineEventStatus(c, false)
}

func (handler *Handler) setTimelineEventStatus(c *fiber.Ctx, complete bool) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid event id")
	}

	if complete {
		err = handler.timelineService.MarkComplete(user.ID, eventID)
	} else {
		err = handler.timelineService.MarkPending(user.ID, eventID)
	}
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return apiError(c, fiber.StatusNotFound, "timeline event not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to update event")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) RescheduleTimelineEvent(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid event id")
	}

	input := rescheduleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	eventDate, err := parseDayValue(input.EventDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "event_date must be YYYY-MM-DD")
	}

	if err := handler.timelineService.Reschedule(user.ID, eventID, eventDate); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return apiError(c, fiber.StatusNotFound, "timeline event not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to reschedule event")
	}

	return c.JSON(fiber.Map{"ok": true})
}
