package app

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ComplianceRestHandler pre-check endpoint
type ComplianceRestHandler struct {
	precheckUC *PrecheckUseCase
}

// NewComplianceRestHandler create a ComplianceRestHandler
func NewComplianceRestHandler(precheckUC *PrecheckUseCase) *ComplianceRestHandler {
	return &ComplianceRestHandler{precheckUC: precheckUC}
}

// RegisterRoutes mounts the compliance routes behind the shared middlewares.
func (h *ComplianceRestHandler) RegisterRoutes(r *fiber.App) {
	r.Post("/shipments/:id/precheck", h.Precheck)
}

// Precheck POST /shipments/:id/precheck
func (h *ComplianceRestHandler) Precheck(c *fiber.Ctx) error {
	result, err := h.precheckUC.Run(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
