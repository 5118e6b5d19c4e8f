package app

import (
	"errors"

	"customs_clearance_service/internal/shipment/repository"
	"customs_clearance_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ShipmentRestHandler workflow endpoints: status, filing, anchoring
type ShipmentRestHandler struct {
	statusUC *StatusUseCase
	anchorUC *AnchorUseCase
}

// NewShipmentRestHandler create a ShipmentRestHandler
func NewShipmentRestHandler(statusUC *StatusUseCase, anchorUC *AnchorUseCase) *ShipmentRestHandler {
	return &ShipmentRestHandler{
		statusUC: statusUC,
		anchorUC: anchorUC,
	}
}

// RegisterRoutes mounts the workflow routes; the caller has already
// installed the token and identity middlewares.
func (h *ShipmentRestHandler) RegisterRoutes(r *fiber.App) {
	r.Post("/shipments/:id/status", h.ChangeStatus)
	r.Post("/shipments/:id/submit", h.Submit)
	r.Post("/shipments/:id/anchor", h.Anchor)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus POST /shipments/:id/status
func (h *ShipmentRestHandler) ChangeStatus(c *fiber.Ctx) error {
	actorID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req changeStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	if err := h.statusUC.ChangeStatus(c.Context(), c.Params("id"), req.Status, actorID); err != nil {
		return shipmentError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": req.Status})
}

// Submit POST /shipments/:id/submit
func (h *ShipmentRestHandler) Submit(c *fiber.Ctx) error {
	actorID, _ := c.Locals(middlewares.TokenUserID).(string)

	sub, err := h.statusUC.SubmitSGD(c.Context(), c.Params("id"), actorID)
	if err != nil {
		return shipmentError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

// Anchor POST /shipments/:id/anchor
func (h *ShipmentRestHandler) Anchor(c *fiber.Ctx) error {
	actorID, _ := c.Locals(middlewares.TokenUserID).(string)

	anchor, err := h.anchorUC.Anchor(c.Context(), c.Params("id"), actorID)
	if err != nil {
		return shipmentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(anchor)
}

func shipmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrShipmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNotSubmittable),
		errors.Is(err, ErrDraftNotAnchorable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNICISRejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
