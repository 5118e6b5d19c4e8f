package app

import (
	"github.com/gofiber/fiber/v2"
)

// AuditRestHandler read-only audit trail endpoint
type AuditRestHandler struct {
	auditUC *AuditUseCase
}

// NewAuditRestHandler create an AuditRestHandler
func NewAuditRestHandler(auditUC *AuditUseCase) *AuditRestHandler {
	return &AuditRestHandler{auditUC: auditUC}
}

// RegisterRoutes mounts the audit routes behind the shared middlewares.
func (h *AuditRestHandler) RegisterRoutes(r *fiber.App) {
	r.Get("/shipments/:id/audit", h.History)
}

// History GET /shipments/:id/audit?limit=
func (h *AuditRestHandler) History(c *fiber.Ctx) error {
	records, err := h.auditUC.History(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"records": records})
}
