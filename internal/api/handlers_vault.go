package api

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/pregoway/pregoway/internal/services"
)

func (handler *Handler) UploadDocument(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > services.MaxDocumentBytes {
		return apiError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the 15MB limit")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = fileHeader.Filename
	}
	fileType := strings.TrimSpace(c.FormValue("file_type"))

	source, err := fileHeader.Open()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer source.Close()

	document, err := handler.vaultService.Upload(user.ID, title, fileType, fileHeader.Size, source, time.Now().In(handler.location))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentTypeInvalid):
			return apiError(c, fiber.StatusBadRequest, "file_type must be Lab, Scan, Rx or Other")
		case errors.Is(err, services.ErrDocumentTooLarge):
			return apiError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the 15MB limit")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to store document")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"document": document})
}

func (handler *Handler) ListDocuments(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	documents, err := handler.vaultService.List(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list documents")
	}
	return c.JSON(fiber.Map{"documents": documents})
}

func (handler *Handler) GetDocument(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	documentID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid document id")
	}

	document, err := handler.vaultService.Find(user.ID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "document not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load document")
	}
	return c.JSON(fiber.Map{"document": document})
}

func (handler *Handler) AnalyzeDocument(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	documentID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid document id")
	}

	input := analyzeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	document, err := handler.vaultService.MarkAnalyzed(user.ID, documentID, strings.TrimSpace(input.RiskStatus))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "document not found")
		}
		return apiError(c, fiber.StatusBadRequest, "risk_status must be Normal or High")
	}
	return c.JSON(fiber.Map{"document": document})
}

func (handler *Handler) DocumentDownloadToken(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	documentID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid document id")
	}

	token, document, err := handler.vaultService.DownloadToken(user.ID, documentID, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "document not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to create download token")
	}

	return c.JSON(fiber.Map{"token": token, "document": document})
}

func (handler *Handler) DownloadDocument(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return apiError(c, fiber.StatusBadRequest, "token is required")
	}

	reader, objectKey, err := handler.vaultService.OpenByToken(token)
	if err != nil {
		if errors.Is(err, services.ErrDownloadTokenBad) {
			return apiError(c, fiber.StatusUnauthorized, "invalid or expired download token")
		}
		return apiError(c, fiber.StatusNotFound, "document not found")
	}
	defer reader.Close()

	document, err := handler.repos.Documents.FindByObjectKey(objectKey)
	filename := objectKey
	if err == nil && strings.TrimSpace(document.Title) != "" {
		filename = document.Title
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	if _, err := io.Copy(c.Response().BodyWriter(), reader); err != nil {
		return err
	}
	return nil
}

func (handler *Handler) DeleteDocument(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	documentID, err := parseUintParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid document id")
	}

	if err := handler.vaultService.Remove(user.ID, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "document not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to delete document")
	}
	return c.JSON(fiber.Map{"ok": true})
}
