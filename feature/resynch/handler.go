package resynch

import (
	"net/url"

	"asset-resynch/core/logger"
	"asset-resynch/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for resynch plans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the resynch routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/resynch")
	group.Get("/plan", h.HandlePlan)
	group.Get("/status/*", h.HandleStatus)
}

// HandlePlan returns the dry-run plan.
// @Summary Get Resynch Plan
// @Description Traverses author and publish, looks up activation status and returns the actions a resynch would take. Nothing is replicated.
// @Tags resynch
// @Accept json
// @Produce json
// @Param refresh query boolean false "Bypass the plan cache"
// @Success 200 {object} PlanResponse "Plan"
// @Failure 502 {object} map[string]string "Repository unreachable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /resynch/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	refresh := c.Query("refresh") == "true"

	resp, err := h.service.Plan(c.Context(), refresh)
	if err != nil {
		l.Error("Plan failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

// HandleStatus returns the state of one path.
// @Summary Get Path Status
// @Description Looks up one asset path on author and publish and returns the action a resynch would take for it.
// @Tags resynch
// @Accept json
// @Produce json
// @Param path path string true "Asset path below /content/dam"
// @Success 200 {object} StatusResponse "Status"
// @Failure 400 {object} map[string]string "Missing path"
// @Failure 502 {object} map[string]string "Repository unreachable"
// @Router /resynch/status/{path} [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path, err := url.PathUnescape(c.Params("*"))
	if err != nil || path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	resp, err := h.service.Status(c.Context(), path)
	if err != nil {
		l.Error("Status lookup failed", zap.String("path", path), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

func statusFor(err error) int {
	switch {
	case reconcile.IsKind(err, reconcile.KindTransport):
		return fiber.StatusBadGateway
	case reconcile.IsKind(err, reconcile.KindDataIntegrity):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
