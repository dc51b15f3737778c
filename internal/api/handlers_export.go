package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pregoway/pregoway/internal/models"
	"github.com/pregoway/pregoway/internal/services"
)

// exportSubjectAndRange resolves whose records are being exported. Patients
// export their own; doctors export a linked patient's via the :id parameter.
func (handler *Handler) exportSubjectAndRange(c *fiber.Ctx) (uint, *time.Time, *time.Time, int, string) {
	user, ok := currentUser(c)
	if !ok {
		return 0, nil, nil, fiber.StatusUnauthorized, "unauthorized"
	}

	subjectID := user.ID
	if user.Role == models.RoleDoctor {
		patientID, err := parseUintParam(c, "id")
		if err != nil {
			return 0, nil, nil, fiber.StatusBadRequest, "invalid patient id"
		}
		if err := handler.careService.RequireActiveLink(user.ID, patientID); err != nil {
			return 0, nil, nil, fiber.StatusForbidden, "no active care link with this patient"
		}
		subjectID = patientID
	}

	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExportFromDateInvalid):
			return 0, nil, nil, fiber.StatusBadRequest, "from must be YYYY-MM-DD"
		case errors.Is(err, services.ErrExportToDateInvalid):
			return 0, nil, nil, fiber.StatusBadRequest, "to must be YYYY-MM-DD"
		default:
			return 0, nil, nil, fiber.StatusBadRequest, "from must not be after to"
		}
	}
	return subjectID, from, to, 0, ""
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	subjectID, from, to, status, message := handler.exportSubjectAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	entries, err := handler.exportService.BuildEntries(subjectID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch check-ins")
	}
	now := time.Now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", services.ExportFilename("csv", now, handler.location))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	subjectID, from, to, status, message := handler.exportSubjectAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	entries, err := handler.exportService.BuildEntries(subjectID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch check-ins")
	}
	metrics, err := handler.exportService.BuildMetricEntries(subjectID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch vitals")
	}
	now := time.Now().In(handler.location)

	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"checkins":    entries,
		"vitals":      metrics,
	}
	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, services.ExportFilename("json", now, handler.location))
	return c.Send(serialized)
}

func (handler *Handler) ExportXLSX(c *fiber.Ctx) error {
	subjectID, from, to, status, message := handler.exportSubjectAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	workbook, err := handler.exportService.BuildWorkbook(subjectID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	now := time.Now().In(handler.location)

	var output bytes.Buffer
	if err := workbook.Write(&output); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", services.ExportFilename("xlsx", now, handler.location))
	return c.Send(output.Bytes())
}
