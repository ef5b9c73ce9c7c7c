package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/repositories"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

type AnalyzeHandler struct {
	sessionRepo     repositories.SessionRepository
	storageService  services.StorageService
	analyzer        services.AnalyzerService
	validator       *validator.Validate
	historyTruncate int
}

func NewAnalyzeHandler(
	sessionRepo repositories.SessionRepository,
	storageService services.StorageService,
	analyzer services.AnalyzerService,
	historyTruncate int,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		sessionRepo:     sessionRepo,
		storageService:  storageService,
		analyzer:        analyzer,
		validator:       newValidator(),
		historyTruncate: historyTruncate,
	}
}

// HandleAnalyze handles POST /sessions/:id/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	if _, err := h.sessionRepo.FindByID(sessionID); err != nil {
		return errorResponse(c, err)
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume is required. Please upload your résumé as a PDF file.",
		})
	}

	doc, err := h.storageService.ReadUpload(file)
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), services.AnalysisInput{
		Document:       doc,
		JobDescription: req.JobDescription,
		Mode:           req.Mode,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.sessionRepo.SetCurrent(sessionID, result); err != nil {
		return errorResponse(c, err)
	}

	saved := false
	if req.ShouldSave() {
		entry := models.NewHistoryEntry(result.CreatedAt, result.ModeTitle, result.Response, h.historyTruncate)
		if err := h.sessionRepo.AppendHistory(sessionID, entry); err != nil {
			log.Printf("⚠️ Failed to save history for session %s: %v\n", sessionID, err)
		} else {
			saved = true
		}
	}

	return c.JSON(models.AnalyzeResponse{
		SessionID: sessionID.String(),
		Saved:     saved,
		Result:    result,
	})
}
