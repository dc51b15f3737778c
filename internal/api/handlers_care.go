package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := handler.careService.ListDoctors()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list doctors")
	}
	return c.JSON(fiber.Map{"doctors": doctors})
}

func (handler *Handler) RequestCareLink(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := linkRequestInput{}
	if err := c.BodyParser(&input); err != nil || input.DoctorID == 0 {
		return apiError(c, fiber.StatusBadRequest, "doctor_id is required")
	}

	link, err := handler.careService.RequestLink(user.ID, input.DoctorID, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDoctorNotFound):
			return apiError(c, fiber.StatusNotFound, "doctor not found")
		case errors.Is(err, services.ErrNotVerifiedDoctor):
			return apiError(c, fiber.StatusBadRequest, "doctor is not verified")
		case errors.Is(err, services.ErrLinkExists):
			return apiError(c, fiber.StatusConflict, "a request to this doctor already exists")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to request link")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"link": link})
}

func (handler *Handler) GetCareLinks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var links []models.CareLink
	var err error
	if user.Role == models.RoleDoctor {
		links, err = handler.careService.DoctorLinks(user.ID, strings.TrimSpace(c.Query("status")))
	} else {
		links, err = handler.careService.PatientLinks(user.ID)
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list links")
	}
	return c.JSON(fiber.Map{"links": links})
}

func (handler *Handler) ResolveCareLink(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid link id")
	}

	input := linkResolveInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	link, err := handler.careService.ResolveLink(user.ID, linkID, input.Accept)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			return apiError(c, fiber.StatusNotFound, "link not found")
		case errors.Is(err, services.ErrNotLinkOwner):
			return apiError(c, fiber.StatusForbidden, "link belongs to another doctor")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to resolve link")
		}
	}

	return c.JSON(fiber.Map{"link": link})
}

func (handler *Handler) ArchiveCareLink(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if err := handler.careService.ArchiveLink(user.ID, linkID); err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound):
			return apiError(c, fiber.StatusNotFound, "link not found")
		case errors.Is(err, services.ErrNotLinkOwner):
			return apiError(c, fiber.StatusForbidden, "link belongs to someone else")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to archive link")
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

// consultationPair resolves the doctor/patient pair from the caller's role and
// the peer id supplied by the client.
func consultationPair(user *models.User, peerID uint) (uint, uint) {
	if user.Role == models.RoleDoctor {
		return user.ID, peerID
	}
	return peerID, user.ID
}

func (handler *Handler) SendConsultation(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := messageInput{}
	if err := c.BodyParser(&input); err != nil || input.PeerID == 0 {
		return apiError(c, fiber.StatusBadRequest, "peer_id and message are required")
	}

	doctorID, patientID := consultationPair(user, input.PeerID)
	message, err := handler.careService.SendMessage(user.ID, doctorID, patientID, input.Message, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			return apiError(c, fiber.StatusBadRequest, "message is required")
		case errors.Is(err, services.ErrMessageTooLong):
			return apiError(c, fiber.StatusBadRequest, "message is too long")
		case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrLinkNotActive):
			return apiError(c, fiber.StatusForbidden, "no active care link with this user")
		case errors.Is(err, services.ErrNotLinkOwner):
			return apiError(c, fiber.StatusForbidden, "not a participant in this thread")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to send message")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (handler *Handler) GetConsultations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	peerID, err := parsePeerQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "peer_id is required")
	}

	limit := parseLimitQuery(c, 100, 500)
	doctorID, patientID := consultationPair(user, peerID)
	messages, err := handler.careService.Thread(user.ID, doctorID, patientID, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrLinkNotActive):
			return apiError(c, fiber.StatusForbidden, "no active care link with this user")
		case errors.Is(err, services.ErrNotLinkOwner):
			return apiError(c, fiber.StatusForbidden, "not a participant in this thread")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to load messages")
		}
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func (handler *Handler) GetUnreadCount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	peerID, err := parsePeerQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "peer_id is required")
	}

	doctorID, patientID := consultationPair(user, peerID)
	count, err := handler.careService.UnreadCount(user.ID, doctorID, patientID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to count unread messages")
	}
	return c.JSON(fiber.Map{"unread": count})
}
