package app

import (
	"errors"

	"customs_clearance_service/internal/identity/domain"

	"github.com/gofiber/fiber/v2"
)

// IdentityRestHandler auth endpoints
type IdentityRestHandler struct {
	identityUC *IdentityUseCase
}

// NewIdentityRestHandler create an IdentityRestHandler
func NewIdentityRestHandler(identityUC *IdentityUseCase) *IdentityRestHandler {
	return &IdentityRestHandler{identityUC: identityUC}
}

// RegisterRoutes mounts the auth routes; they sit in front of the token
// middleware because they mint the tokens.
func (h *IdentityRestHandler) RegisterRoutes(r *fiber.App) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// Register POST /auth/register
func (h *IdentityRestHandler) Register(c *fiber.Ctx) error {
	var in domain.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed body",
		})
	}

	userID, err := h.identityUC.Register(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_id": userID})
}

// Login POST /auth/login
func (h *IdentityRestHandler) Login(c *fiber.Ctx) error {
	var in domain.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed body",
		})
	}

	tokenStr, err := h.identityUC.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": tokenStr})
}
