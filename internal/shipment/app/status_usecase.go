package app

import (
	"context"
	"errors"
	"fmt"

	"customs_clearance_service/internal/shipment/domain"
	"customs_clearance_service/internal/shipment/repository"
	"customs_clearance_service/pkg/logger"

	"time"
)

var (
	// ErrShipmentNotFound the shipment id does not exist
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrInvalidTransition the requested status does not follow the current one
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotSubmittable only draft shipments can be filed with the single window
	ErrNotSubmittable = errors.New("only draft shipments can be submitted")
)

// StatusMessenger posts status-change messages into the shipment's room;
// satisfied by the messaging context's system-message use case.
type StatusMessenger interface {
	EmitStatusUpdate(ctx context.Context, shipmentID, oldStatus, newStatus, actorID string) error
}

// AuditRecorder appends one audit record; satisfied by the audit context.
// Recording is best effort for workflow callers.
type AuditRecorder interface {
	Record(ctx context.Context, action, shipmentID, actorID string, details map[string]interface{})
}

// StatusUseCase drives the clearance status state machine
type StatusUseCase struct {
	shipments repository.ShipmentRepository
	nicis     repository.NICISClient
	messenger StatusMessenger
	audit     AuditRecorder
}

// NewStatusUseCase create a StatusUseCase
func NewStatusUseCase(
	shipments repository.ShipmentRepository,
	nicis repository.NICISClient,
	messenger StatusMessenger,
	audit AuditRecorder,
) *StatusUseCase {
	return &StatusUseCase{
		shipments: shipments,
		nicis:     nicis,
		messenger: messenger,
		audit:     audit,
	}
}

// ChangeStatus validates and applies one transition, announces it in the
// room and records it for audit. Announcement and audit failures never roll
// the transition back.
func (uc *StatusUseCase) ChangeStatus(ctx context.Context, shipmentID, newStatus, actorID string) error {
	sh, err := uc.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return err
	}
	if sh == nil {
		return ErrShipmentNotFound
	}
	if !domain.CanTransition(sh.Status, newStatus) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, sh.Status, newStatus)
	}

	if err := uc.shipments.UpdateStatus(ctx, shipmentID, newStatus, time.Now().UTC()); err != nil {
		return err
	}

	if err := uc.messenger.EmitStatusUpdate(ctx, shipmentID, sh.Status, newStatus, actorID); err != nil {
		logger.Log.Errorf("status message for shipment %s failed: %v", shipmentID, err)
	}
	uc.audit.Record(ctx, "status_change", shipmentID, actorID, map[string]interface{}{
		"old_status": sh.Status,
		"new_status": newStatus,
	})

	return nil
}

// SubmitSGD files a draft shipment's declaration with the single window and
// moves it to SGD_SUBMITTED.
func (uc *StatusUseCase) SubmitSGD(ctx context.Context, shipmentID, actorID string) (*domain.SGDSubmission, error) {
	sh, err := uc.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}
	if sh.Status != domain.StatusDraft {
		return nil, ErrNotSubmittable
	}

	sub, err := uc.nicis.SubmitSGD(ctx, sh)
	if err != nil {
		uc.audit.Record(ctx, "sgd_submission_failed", shipmentID, actorID, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := uc.shipments.RecordSubmission(ctx, shipmentID, *sub); err != nil {
		return nil, err
	}

	if err := uc.messenger.EmitStatusUpdate(ctx, shipmentID, sh.Status, domain.StatusSGDSubmitted, actorID); err != nil {
		logger.Log.Errorf("status message for shipment %s failed: %v", shipmentID, err)
	}
	uc.audit.Record(ctx, "sgd_submitted", shipmentID, actorID, map[string]interface{}{
		"sgd_number": sub.SGDNumber,
	})

	return sub, nil
}
