package catalog

import (
	"errors"
	"strconv"

	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for products.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Get("/", h.HandleList)
	group.Get("/:code", h.HandleGet)
}

// HandleList returns products, optionally filtered by ?code=, ?active= and paged by ?limit=&offset=.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	filter := ListFilter{
		Code:   c.Query("code"),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "active must be a boolean",
			})
		}
		filter.Active = &active
	}

	products, err := h.service.List(c.Context(), filter)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Product listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(products),
		"products": products,
	})
}

// HandleGet returns the current product for a code.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	code := c.Params("code")

	product, err := h.service.Get(c.Context(), code)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Product lookup failed", zap.String("code", code), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(product)
}
