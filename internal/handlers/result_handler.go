package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/repositories"
)

type ResultHandler struct {
	sessionRepo  repositories.SessionRepository
	historyLimit int
}

func NewResultHandler(sessionRepo repositories.SessionRepository, historyLimit int) *ResultHandler {
	return &ResultHandler{
		sessionRepo:  sessionRepo,
		historyLimit: historyLimit,
	}
}

// HandleGetHistory handles GET /sessions/:id/history
func (h *ResultHandler) HandleGetHistory(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", h.historyLimit)
	if limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive",
		})
	}

	entries, err := h.sessionRepo.RecentHistory(sessionID, limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(models.HistoryResponse{
		SessionID: sessionID.String(),
		Entries:   entries,
	})
}

// HandleClearHistory handles DELETE /sessions/:id/history
func (h *ResultHandler) HandleClearHistory(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.sessionRepo.ClearHistory(sessionID); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetReport handles GET /sessions/:id/report and returns the current
// response as a text download.
func (h *ResultHandler) HandleGetReport(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionRepo.FindByID(sessionID)
	if err != nil {
		return errorResponse(c, err)
	}

	if session.Current == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analysis available for this session",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", session.Current.DownloadName))

	return c.SendString(session.Current.Response)
}
