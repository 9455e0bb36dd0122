package http

import (
	"estatehub/internal/marketplace/usecase"

	"github.com/gofiber/fiber/v2"
)

// StatusHTTPHandler serves the dashboard summary.
type StatusHTTPHandler struct {
	usecase usecase.StatusUsecaseInterface
}

// NewStatusHTTPHandler creates the status HTTP handler.
func NewStatusHTTPHandler(uc usecase.StatusUsecaseInterface) *StatusHTTPHandler {
	return &StatusHTTPHandler{usecase: uc}
}

// SetupRoutes registers the status route, authenticated.
func (h *StatusHTTPHandler) SetupRoutes(router fiber.Router, guard AuthGuard) {
	router.Get("/status", guard.Protect(), h.GetStatus)
}

// GetStatus returns marketplace-wide statistics.
func (h *StatusHTTPHandler) GetStatus(c *fiber.Ctx) error {
	summary, err := h.usecase.GetStatus(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
