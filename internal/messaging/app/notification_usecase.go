package app

import (
	"context"
	"fmt"
	"time"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/internal/messaging/repository"
	"customs_clearance_service/pkg/logger"

	"github.com/google/uuid"
)

// NotificationUseCase per-recipient fan-out and out-of-band alerting.
// Fan-out is best effort end to end: a failed record or dispatch is logged
// and never propagated back to the message path.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	dispatcher    repository.AlertDispatcher
}

// NewNotificationUseCase create a NotificationUseCase
func NewNotificationUseCase(notifications repository.NotificationRepository, dispatcher repository.AlertDispatcher) *NotificationUseCase {
	return &NotificationUseCase{
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// FanOut creates one notification record per recipient of msg. Urgent
// messages additionally queue an sms alert per recipient.
func (uc *NotificationUseCase) FanOut(ctx context.Context, msg *domain.Message, recipientIDs []string) {
	urgent := msg.Priority == domain.PriorityUrgent

	nType := domain.NotificationNewMessage
	channels := []string{domain.ChannelInApp}
	if urgent {
		nType = domain.NotificationUrgent
		channels = append(channels, domain.ChannelSMS, domain.ChannelEmail)
	}

	for _, rid := range recipientIDs {
		n := &domain.Notification{
			ID:           uuid.New().String(),
			UserID:       rid,
			ShipmentID:   msg.ShipmentID,
			MessageID:    msg.ID,
			Type:         nType,
			SentChannels: channels,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.notifications.Insert(ctx, n); err != nil {
			logger.Log.Errorf("notification fan-out for message %s user %s failed: %v", msg.ID, rid, err)
			continue
		}

		if urgent {
			for _, channel := range []string{domain.ChannelSMS, domain.ChannelEmail} {
				alert := domain.OutboundAlert{
					Channel:    channel,
					UserID:     rid,
					ShipmentID: msg.ShipmentID,
					MessageID:  msg.ID,
					Body:       fmt.Sprintf("Urgent message from %s on shipment %s", msg.SenderName, msg.ShipmentID),
					CreatedAt:  time.Now().UTC(),
				}
				if err := uc.dispatcher.Dispatch(alert); err != nil {
					logger.Log.Errorf("%s alert for message %s user %s failed: %v", channel, msg.ID, rid, err)
				}
			}
		}
	}
}

// SendDeadlineAlerts notifies userIDs about an approaching deadline on a
// shipment, in-app plus email.
func (uc *NotificationUseCase) SendDeadlineAlerts(ctx context.Context, shipmentID string, userIDs []string, body string) {
	for _, uid := range userIDs {
		n := &domain.Notification{
			ID:           uuid.New().String(),
			UserID:       uid,
			ShipmentID:   shipmentID,
			Type:         domain.NotificationDeadline,
			SentChannels: []string{domain.ChannelInApp, domain.ChannelEmail},
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.notifications.Insert(ctx, n); err != nil {
			logger.Log.Errorf("deadline notification for shipment %s user %s failed: %v", shipmentID, uid, err)
			continue
		}

		alert := domain.OutboundAlert{
			Channel:    domain.ChannelEmail,
			UserID:     uid,
			ShipmentID: shipmentID,
			Body:       body,
			CreatedAt:  time.Now().UTC(),
		}
		if err := uc.dispatcher.Dispatch(alert); err != nil {
			logger.Log.Errorf("email alert for shipment %s user %s failed: %v", shipmentID, uid, err)
		}
	}
}

// Notifications returns the caller's latest notification records.
func (uc *NotificationUseCase) Notifications(ctx context.Context, userID string, limit int64) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.notifications.FindByUser(ctx, userID, limit)
}

// MarkNotificationRead flips one notification to read.
func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	return uc.notifications.MarkRead(ctx, notificationID, userID)
}
