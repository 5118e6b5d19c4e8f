package app

import (
	"errors"
	"time"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// MessagingRestHandler REST surface of the messaging context: history,
// unread summaries, uploads and notification records.
type MessagingRestHandler struct {
	messageUC      *MessageUseCase
	attachmentUC   *AttachmentUseCase
	notificationUC *NotificationUseCase
}

// NewMessagingRestHandler create a MessagingRestHandler
func NewMessagingRestHandler(
	messageUC *MessageUseCase,
	attachmentUC *AttachmentUseCase,
	notificationUC *NotificationUseCase,
) *MessagingRestHandler {
	return &MessagingRestHandler{
		messageUC:      messageUC,
		attachmentUC:   attachmentUC,
		notificationUC: notificationUC,
	}
}

func identityFromLocals(c *fiber.Ctx) domain.Identity {
	id := domain.Identity{}
	if v, ok := c.Locals(middlewares.TokenUserID).(string); ok {
		id.UserID = v
	}
	if v, ok := c.Locals(middlewares.TokenRole).(string); ok {
		id.Role = v
	}
	if v, ok := c.Locals(middlewares.TokenOrgID).(string); ok {
		id.OrgID = v
	}
	return id
}

// History GET /shipments/:id/messages?limit=&before_timestamp=&thread_id=
func (h *MessagingRestHandler) History(c *fiber.Ctx) error {
	id := identityFromLocals(c)
	shipmentID := c.Params("id")

	q := domain.HistoryQuery{
		Limit:    int64(c.QueryInt("limit")),
		ThreadID: c.Query("thread_id"),
	}
	if before := c.Query("before_timestamp"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "before_timestamp must be RFC3339",
			})
		}
		q.Before = t
	}

	messages, hasMore, err := h.messageUC.History(c.Context(), id, shipmentID, q)
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": messages,
		"has_more": hasMore,
	})
}

// maxUploadSize upper bound on one attachment part
const maxUploadSize = 10 << 20

// Upload POST /shipments/:id/messages/upload (multipart, field "file")
func (h *MessagingRestHandler) Upload(c *fiber.Ctx) error {
	id := identityFromLocals(c)
	shipmentID := c.Params("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}
	if fileHeader.Size > maxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "file exceeds the 10MB limit",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot read file",
		})
	}
	defer f.Close()

	attachment, err := h.attachmentUC.Upload(
		c.Context(), id, shipmentID,
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
		f, fileHeader.Size,
	)
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}

// DownloadURL GET /shipments/:id/attachments/url?key=
func (h *MessagingRestHandler) DownloadURL(c *fiber.Ctx) error {
	id := identityFromLocals(c)
	shipmentID := c.Params("id")

	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "key is required",
		})
	}

	url, err := h.attachmentUC.DownloadURL(c.Context(), id, shipmentID, key)
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}

// UnreadSummary GET /messages/unread
func (h *MessagingRestHandler) UnreadSummary(c *fiber.Ctx) error {
	id := identityFromLocals(c)

	summaries, err := h.messageUC.UnreadSummary(c.Context(), id.UserID)
	if err != nil {
		return restError(c, err)
	}

	total := 0
	for _, s := range summaries {
		total += s.UnreadCount
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"total_unread": total,
		"by_shipment":  summaries,
	})
}

// DeleteMessage DELETE /messages/:messageID
func (h *MessagingRestHandler) DeleteMessage(c *fiber.Ctx) error {
	id := identityFromLocals(c)

	if err := h.messageUC.DeleteMessage(c.Context(), id, c.Params("messageID")); err != nil {
		return restError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Notifications GET /notifications?limit=
func (h *MessagingRestHandler) Notifications(c *fiber.Ctx) error {
	id := identityFromLocals(c)

	notifications, err := h.notificationUC.Notifications(c.Context(), id.UserID, int64(c.QueryInt("limit")))
	if err != nil {
		return restError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"notifications": notifications})
}

// MarkNotificationRead POST /notifications/:notificationID/read
func (h *MessagingRestHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id := identityFromLocals(c)

	if err := h.notificationUC.MarkNotificationRead(c.Context(), c.Params("notificationID"), id.UserID); err != nil {
		return restError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func restError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this shipment",
			"code":  domain.CodeAccessDenied,
		})
	case errors.Is(err, ErrMessageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
