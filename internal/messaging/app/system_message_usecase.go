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

// flagTemplates human wording per compliance flag type
var flagTemplates = map[string]string{
	"missing_field":     "Document check: %s",
	"hs_code_mismatch":  "Possible HS code mismatch: %s",
	"valuation_anomaly": "Valuation anomaly detected: %s",
}

// statusLabels human wording per shipment status code
var statusLabels = map[string]string{
	"DRAFT":                "Draft",
	"SGD_SUBMITTED":        "SGD Submitted",
	"PAAR_APPROVED":        "PAAR Approved",
	"PAYMENT_RECEIVED":     "Payment Received",
	"RISK_GREEN":           "Risk Lane Green",
	"RISK_YELLOW":          "Risk Lane Yellow",
	"RISK_RED":             "Risk Lane Red",
	"INSPECTION_SCHEDULED": "Inspection Scheduled",
	"EXIT_NOTE_ISSUED":     "Exit Note Issued",
	"CLEARED":              "Cleared",
}

// SystemMessageUseCase produces messages on behalf of the platform itself.
// System messages are persisted like user messages but start with an empty
// seen_by list, never touch unread counters and never trigger notification
// fan-out. A broadcast failure is logged and swallowed so the producing
// workflow is never rolled back by a messaging outage.
type SystemMessageUseCase struct {
	messages  repository.MessageRepository
	backplane repository.RoomBackplane
}

// NewSystemMessageUseCase create a SystemMessageUseCase
func NewSystemMessageUseCase(messages repository.MessageRepository, backplane repository.RoomBackplane) *SystemMessageUseCase {
	return &SystemMessageUseCase{
		messages:  messages,
		backplane: backplane,
	}
}

// EmitComplianceFlag posts one ai_flag message describing a pre-check finding.
func (uc *SystemMessageUseCase) EmitComplianceFlag(ctx context.Context, shipmentID string, flag domain.ComplianceFlag) error {
	tmpl, ok := flagTemplates[flag.Type]
	if !ok {
		tmpl = "Compliance flag: %s"
	}
	body := fmt.Sprintf(tmpl, flag.Details)
	if flag.Confidence > 0 {
		body = fmt.Sprintf("%s (confidence %.0f%%)", body, flag.Confidence*100)
	}

	priority := domain.PriorityNormal
	if flag.Severity == "error" {
		priority = domain.PriorityUrgent
	}

	return uc.emit(ctx, shipmentID, body, domain.MessageTypeAIFlag, priority, map[string]interface{}{
		"flag_id":   flag.ID,
		"flag_type": flag.Type,
		"severity":  flag.Severity,
	})
}

// EmitStatusUpdate posts one status_update message announcing a transition.
func (uc *SystemMessageUseCase) EmitStatusUpdate(ctx context.Context, shipmentID, oldStatus, newStatus, actorID string) error {
	body := fmt.Sprintf("Status updated: %s → %s", statusLabel(oldStatus), statusLabel(newStatus))
	return uc.emit(ctx, shipmentID, body, domain.MessageTypeStatusUpdate, domain.PriorityNormal, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": newStatus,
		"actor_id":   actorID,
	})
}

func (uc *SystemMessageUseCase) emit(ctx context.Context, shipmentID, body string, msgType domain.MessageType, priority domain.Priority, metadata map[string]interface{}) error {
	msg := &domain.Message{
		ID:          uuid.New().String(),
		ShipmentID:  shipmentID,
		SenderID:    domain.SystemSenderID,
		SenderName:  "System",
		SenderRole:  "system",
		Body:        body,
		Priority:    priority,
		MessageType: msgType,
		SeenBy:      []domain.SeenBy{},
		SentAt:      time.Now().UTC(),
		Metadata:    metadata,
	}

	if err := uc.messages.Insert(ctx, msg); err != nil {
		return err
	}

	ev, err := domain.NewRoomEvent(domain.EventMessageReceived, "", false, domain.MessageReceivedPayload{Message: msg})
	if err != nil {
		logger.Log.Errorf("system message %s: build broadcast failed: %v", msg.ID, err)
		return nil
	}
	if err := uc.backplane.Publish(ctx, repository.RoomChannel(shipmentID), ev); err != nil {
		logger.Log.Errorf("system message %s: broadcast failed: %v", msg.ID, err)
	}
	return nil
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}
