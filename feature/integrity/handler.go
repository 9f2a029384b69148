package integrity

import (
	"asset-resynch/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/endpoints", h.HandleEndpointsCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Endpoints, Database). Nothing is fixed.
// @Tags integrity
// @Produce json
// @Success 200 {object} Summary "Everything healthy"
// @Failure 503 {object} Summary "At least one check failed"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sum := h.service.CheckAll(c.Context())
	if !sum.Healthy {
		l.Warn("Integrity checks failed",
			zap.String("structure", sum.Structure.Status),
			zap.String("endpoints_error", sum.EndpointsError),
			zap.String("database_error", sum.DatabaseError))
		return c.Status(fiber.StatusServiceUnavailable).JSON(sum)
	}
	return c.JSON(sum)
}

// HandleStructureCheck checks and optionally fixes the report bucket layout.
// @Summary Check Structure
// @Description Checks if the report folders exist in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} StructureResult "Structure Report"
// @Failure 500 {object} StructureResult "Fix failed"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Structure(c.Context(), c.QueryBool("fix"))
	if err != nil {
		l.Error("Failed to fix structure", zap.Strings("missing", result.Missing), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	switch result.Status {
	case "error":
		l.Error("Structure check failed", zap.String("error", result.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	case "missing", "fixed":
		l.Info("Report folders", zap.String("status", result.Status), zap.Strings("folders", result.Missing))
	}
	return c.JSON(result)
}

// HandleEndpointsCheck checks the author and publish listing endpoints.
// @Summary Check AEM Endpoints
// @Description Fetches the first listing page of the configured start path on author and publish.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.EndpointReport "All endpoints reachable"
// @Failure 502 {array} checks.EndpointReport "At least one endpoint failed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/endpoints [get]
func (h *Handler) HandleEndpointsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.CheckEndpoints(c.Context())
	if err != nil {
		l.Error("Endpoint check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	status := fiber.StatusOK
	for _, r := range reports {
		if r.Status != "ok" {
			l.Warn("Endpoint unreachable", zap.String("name", r.Name), zap.String("error", r.Error))
			status = fiber.StatusBadGateway
		}
	}
	return c.Status(status).JSON(reports)
}

// HandleDatabaseCheck checks the history schema.
// @Summary Check History Schema
// @Description Checks if the run history tables match the expected models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.DatabaseReport "Database Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckDatabase()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("History schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
