package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Analyze *AnalyzeHandler
	Session *SessionHandler
	Result  *ResultHandler
	Modes   *ModesHandler
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/modes", h.Modes.HandleList)

	api.Post("/sessions", h.Session.HandleCreate)
	api.Get("/sessions/:id", h.Session.HandleGet)
	api.Delete("/sessions/:id", h.Session.HandleDelete)
	api.Delete("/sessions/:id/current", h.Session.HandleClearCurrent)

	api.Post("/sessions/:id/analyze", h.Analyze.HandleAnalyze)

	api.Get("/sessions/:id/history", h.Result.HandleGetHistory)
	api.Delete("/sessions/:id/history", h.Result.HandleClearHistory)
	api.Get("/sessions/:id/report", h.Result.HandleGetReport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS Resume Expert API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/modes",
				"POST /api/v1/sessions",
				"POST /api/v1/sessions/:id/analyze",
				"GET /api/v1/sessions/:id/history",
				"GET /api/v1/sessions/:id/report",
			},
		})
	})
}

// ErrorHandler renders every unhandled error as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := HTTPStatus(err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
