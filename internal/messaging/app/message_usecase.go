package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/internal/messaging/repository"
	errprocess "customs_clearance_service/pkg/err"
	"customs_clearance_service/pkg/token"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// History paging bounds
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// Validation failures surfaced to the client as INVALID_PAYLOAD
var (
	// ErrEmptyMessage the body is empty after sanitization and no attachments were given
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrUnknownSender the sender id does not resolve to an active user
	ErrUnknownSender = errors.New("sender is not an active user")
	// ErrMessageNotFound the message id does not exist
	ErrMessageNotFound = errors.New("message not found")
)

// UserDirectory resolves sender identities; satisfied by the identity context.
type UserDirectory interface {
	ResolveUser(ctx context.Context, userID string) (*domain.UserInfo, error)
}

// AuditRecorder writes send failures into the audit trail; satisfied by the
// audit context, may be nil.
type AuditRecorder interface {
	Record(ctx context.Context, action, shipmentID, actorID string, details map[string]interface{})
}

// MessageUseCase message ingestion, read receipts, history and unread summaries
type MessageUseCase struct {
	messages  repository.MessageRepository
	shipments repository.ShipmentRepository
	rooms     *RoomUseCase
	users     UserDirectory
	audit     AuditRecorder
	sanitizer *bluemonday.Policy
}

// NewMessageUseCase create a MessageUseCase
func NewMessageUseCase(
	messages repository.MessageRepository,
	shipments repository.ShipmentRepository,
	rooms *RoomUseCase,
	users UserDirectory,
	audit AuditRecorder,
) *MessageUseCase {
	return &MessageUseCase{
		messages:  messages,
		shipments: shipments,
		rooms:     rooms,
		users:     users,
		audit:     audit,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Send validates, persists and accounts one user message. The returned
// message is the exact record that was stored and the returned ids are the
// participants to fan notifications out to; the caller broadcasts both.
// Unread counters of every participant except the sender are bumped in
// the same store operation that stamps last_message_at.
func (uc *MessageUseCase) Send(ctx context.Context, id domain.Identity, in domain.SendMessageInput) (*domain.Message, []string, error) {
	sh, err := uc.rooms.Authorize(ctx, in.ShipmentID, id)
	if err != nil {
		return nil, nil, err
	}

	body := strings.TrimSpace(uc.sanitizer.Sanitize(in.Body))
	if body == "" && len(in.Attachments) == 0 {
		return nil, nil, ErrEmptyMessage
	}

	sender, err := uc.users.ResolveUser(ctx, id.UserID)
	if err != nil {
		return nil, nil, err
	}
	if sender == nil || !sender.Active {
		return nil, nil, ErrUnknownSender
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		ID:              uuid.New().String(),
		ShipmentID:      in.ShipmentID,
		SenderID:        sender.ID,
		SenderName:      sender.Name,
		SenderRole:      sender.Role,
		Body:            body,
		Attachments:     in.Attachments,
		ThreadID:        in.ThreadID,
		ParentMessageID: in.ParentMessageID,
		Priority:        priority,
		MessageType:     domain.MessageTypeUser,
		SeenBy:          []domain.SeenBy{{UserID: sender.ID, SeenAt: now}},
		SentAt:          now,
	}

	if err := uc.messages.Insert(ctx, msg); err != nil {
		uc.auditSendFailure(ctx, sh.ID, sender.ID, "insert", err)
		return nil, nil, errprocess.Set(err.Error())
	}

	recipients := sh.RecipientIDs(sender.ID)
	if err := uc.shipments.RecordMessage(ctx, sh.ID, sender.ID, recipients, now); err != nil {
		uc.auditSendFailure(ctx, sh.ID, sender.ID, "record", err)
		return nil, nil, errprocess.Set(err.Error())
	}

	return msg, recipients, nil
}

func (uc *MessageUseCase) auditSendFailure(ctx context.Context, shipmentID, senderID, stage string, err error) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(ctx, "message_send_failed", shipmentID, senderID, map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}

// ReadMessages records the caller's read receipts and resets their unread
// counter. The counter reset is unconditional; the returned count says how
// many messages actually gained a new seen_by entry, so the caller can skip
// the receipt broadcast when nothing changed.
func (uc *MessageUseCase) ReadMessages(ctx context.Context, id domain.Identity, shipmentID string, messageIDs []string) (int64, time.Time, error) {
	now := time.Now().UTC()

	modified, err := uc.messages.MarkSeen(ctx, shipmentID, messageIDs, id.UserID, now)
	if err != nil {
		return 0, now, err
	}

	if err := uc.shipments.ResetUnread(ctx, shipmentID, id.UserID); err != nil {
		return modified, now, err
	}

	return modified, now, nil
}

// History returns one page of the shipment's messages, oldest first, and
// whether an older page may exist.
func (uc *MessageUseCase) History(ctx context.Context, id domain.Identity, shipmentID string, q domain.HistoryQuery) ([]domain.Message, bool, error) {
	if _, err := uc.rooms.Authorize(ctx, shipmentID, id); err != nil {
		return nil, false, err
	}

	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}

	messages, err := uc.messages.FindHistory(ctx, shipmentID, q)
	if err != nil {
		return nil, false, err
	}

	return messages, int64(len(messages)) == q.Limit, nil
}

// UnreadSummary returns the caller's per-shipment unread counts.
func (uc *MessageUseCase) UnreadSummary(ctx context.Context, userID string) ([]domain.ShipmentUnread, error) {
	return uc.shipments.FindUnreadSummaries(ctx, userID)
}

// DeleteMessage soft-deletes a message. Only the original sender or an
// admin may delete; the record stays in the store for audit.
func (uc *MessageUseCase) DeleteMessage(ctx context.Context, id domain.Identity, messageID string) error {
	msg, err := uc.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != id.UserID && id.Role != string(token.RoleAdmin) {
		return domain.ErrAccessDenied
	}
	return uc.messages.SoftDelete(ctx, messageID, time.Now().UTC())
}
