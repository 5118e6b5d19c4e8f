package router

import (
	"context"

	"customs_clearance_service/internal/messaging/app"
	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the messaging websocket and REST surface. Every
// route sits behind the token check plus the identity gate: a valid token
// whose user no longer exists or is deactivated is rejected before any
// room or message logic runs.
func RegisterRoutes(r *fiber.App, wsHandler *app.MessagingWebsocketHandler, restHandler *app.MessagingRestHandler, users app.UserDirectory) {
	r.Use(middlewares.JWTMiddleware())
	r.Use(identityGate(users))

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		identity := domain.Identity{}
		if v, ok := c.Locals(middlewares.TokenUserID).(string); ok {
			identity.UserID = v
		}
		if v, ok := c.Locals(middlewares.TokenRole).(string); ok {
			identity.Role = v
		}
		if v, ok := c.Locals(middlewares.TokenOrgID).(string); ok {
			identity.OrgID = v
		}
		wsHandler.HandleConnection(context.Background(), c, identity)
	}))

	r.Get("/shipments/:id/messages", restHandler.History)
	r.Post("/shipments/:id/messages/upload", restHandler.Upload)
	r.Get("/shipments/:id/attachments/url", restHandler.DownloadURL)
	r.Get("/messages/unread", restHandler.UnreadSummary)
	r.Delete("/messages/:messageID", restHandler.DeleteMessage)
	r.Get("/notifications", restHandler.Notifications)
	r.Post("/notifications/:notificationID/read", restHandler.MarkNotificationRead)
}

// identityGate re-resolves the token's user on every request so revoked
// accounts lose access the moment they are deactivated.
func identityGate(users app.UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(middlewares.TokenUserID).(string)

		user, err := users.ResolveUser(c.Context(), userID)
		if err != nil || user == nil || !user.Active {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found or inactive",
			})
		}
		return c.Next()
	}
}
