package app

import (
	"context"
	"encoding/json"
	"time"

	"customs_clearance_service/internal/audit/repository"
	"customs_clearance_service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// AuditUseCase append-only audit trail: every record lands in Postgres and
// is streamed to Kafka for downstream consumers. Both sinks are best effort
// so workflow callers are never blocked by an audit outage.
type AuditUseCase struct {
	records repository.AuditRepository
	writer  *kafka.Writer
}

// NewAuditUseCase create an AuditUseCase; writer may be nil when the event
// stream is disabled.
func NewAuditUseCase(records repository.AuditRepository, writer *kafka.Writer) *AuditUseCase {
	return &AuditUseCase{
		records: records,
		writer:  writer,
	}
}

// Record appends one audit record and publishes it to the event stream.
func (uc *AuditUseCase) Record(ctx context.Context, action, shipmentID, actorID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		logger.Log.Errorf("audit details marshal failed: %v", err)
		detailsJSON = []byte("{}")
	}

	record := &repository.AuditRecord{
		Action:     action,
		ShipmentID: shipmentID,
		ActorID:    actorID,
		Details:    string(detailsJSON),
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.records.Create(ctx, record); err != nil {
		logger.Log.Errorf("audit record %s for shipment %s failed: %v", action, shipmentID, err)
	}

	if uc.writer == nil {
		return
	}
	event, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := uc.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(shipmentID),
		Value: event,
	}); err != nil {
		logger.Log.Errorf("audit event %s for shipment %s failed: %v", action, shipmentID, err)
	}
}

// History returns the latest audit records of one shipment.
func (uc *AuditUseCase) History(ctx context.Context, shipmentID string, limit int) ([]repository.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	return uc.records.FindByShipment(ctx, shipmentID, limit)
}
