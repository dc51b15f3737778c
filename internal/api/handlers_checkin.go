package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/services"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 365
)

type questionPayload struct {
	services.Question
	FollowUp *services.Question `json:"follow_up,omitempty"`
}

func (handler *Handler) GetCheckinQuestions(c *fiber.Ctx) error {
	base := services.DefaultQuestions()
	questions := make([]questionPayload, 0, len(base))
	for _, question := range base {
		payload := questionPayload{Question: question}
		if question.FollowUp != "" {
			if followUp, ok := services.FollowUpQuestion(question.FollowUp); ok {
				payload.FollowUp = &followUp
			}
		}
		questions = append(questions, payload)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

func (handler *Handler) GetCheckinToday(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	done, err := handler.checkinService.HasCheckinForDay(user.ID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check today's status")
	}
	return c.JSON(fiber.Map{"done": done})
}

func (handler *Handler) SubmitCheckin(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := checkinSubmitInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if len(input.Answers) == 0 {
		return apiError(c, fiber.StatusBadRequest, "answers are required")
	}

	checkin, err := handler.checkinService.Submit(user.ID, input.Answers, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCheckinAlreadyDone):
			return apiError(c, fiber.StatusConflict, "already checked in today")
		case errors.Is(err, services.ErrAnswerMismatch), errors.Is(err, services.ErrSessionComplete):
			return apiError(c, fiber.StatusBadRequest, "answers do not match the question script")
		default:
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"checkin": checkin})
}

func (handler *Handler) GetCheckinHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := parseLimitQuery(c, defaultHistoryLimit, maxHistoryLimit)
	checkins, err := handler.checkinService.History(user.ID, limit)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(fiber.Map{"checkins": checkins})
}

func (handler *Handler) GetLatestRisk(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entry, found, err := handler.checkinService.LatestRisk(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load risk")
	}
	if !found {
		return c.JSON(fiber.Map{"risk": nil})
	}
	return c.JSON(fiber.Map{"risk": entry})
}

func (handler *Handler) GetRiskHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := parseLimitQuery(c, defaultHistoryLimit, maxHistoryLimit)
	entries, err := handler.checkinService.RiskHistory(user.ID, limit)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load risk history")
	}
	return c.JSON(fiber.Map{"risk_logs": entries})
}
