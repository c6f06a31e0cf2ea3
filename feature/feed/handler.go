package feed

import (
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pipeline jobs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the job routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/jobs")
	group.Get("/", h.HandleOverview)
	group.Post("/download", h.HandleTriggerDownload)
}

// HandleOverview returns queue counts, repeatables and retained jobs (?limit=, default 30).
func (h *Handler) HandleOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.Context(), c.QueryInt("limit", 30))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Job overview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(overview)
}

// HandleTriggerDownload queues a manual download.
func (h *Handler) HandleTriggerDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	job, err := h.service.TriggerDownload(c.Context())
	if err != nil {
		l.Error("Manual download enqueue failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Manual download queued", zap.String("job_id", job.ID))
	return c.Status(fiber.StatusAccepted).JSON(job)
}
