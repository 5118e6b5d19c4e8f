package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customs_clearance_service/internal/shipment/domain"
	"customs_clearance_service/internal/shipment/repository"
	"customs_clearance_service/pkg/merkle"
)

// ErrDraftNotAnchorable drafts have no filed state worth anchoring
var ErrDraftNotAnchorable = errors.New("draft shipments cannot be anchored")

// AnchorUseCase fixes a shipment's declared state in a hash tree. The chain
// submission itself is stubbed; the computed root and a mock transaction
// hash are appended to the shipment record.
type AnchorUseCase struct {
	shipments repository.ShipmentRepository
	audit     AuditRecorder
}

// NewAnchorUseCase create an AnchorUseCase
func NewAnchorUseCase(shipments repository.ShipmentRepository, audit AuditRecorder) *AnchorUseCase {
	return &AnchorUseCase{
		shipments: shipments,
		audit:     audit,
	}
}

// Anchor computes the merkle root over the shipment's declared fields and
// appends the anchor record.
func (uc *AnchorUseCase) Anchor(ctx context.Context, shipmentID, actorID string) (*domain.Anchor, error) {
	sh, err := uc.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShipmentNotFound
	}
	if sh.Status == domain.StatusDraft {
		return nil, ErrDraftNotAnchorable
	}

	root := merkle.Root(shipmentLeaves(sh))
	now := time.Now().UTC()
	anchor := domain.Anchor{
		MerkleRoot: root,
		TxHash:     merkle.Hash(fmt.Sprintf("tx:%s:%d", root, now.UnixNano())),
		AnchoredBy: actorID,
		AnchoredAt: now,
	}

	if err := uc.shipments.AppendAnchor(ctx, shipmentID, anchor); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, "anchored", shipmentID, actorID, map[string]interface{}{
		"merkle_root": anchor.MerkleRoot,
		"tx_hash":     anchor.TxHash,
	})

	return &anchor, nil
}

// shipmentLeaves serializes the fields that participate in the hash tree.
// Field order is fixed; changing it would change every root.
func shipmentLeaves(sh *domain.Shipment) []string {
	leaves := []string{
		merkle.Hash("id:" + sh.ID),
		merkle.Hash("bl:" + sh.BLNumber),
		merkle.Hash("status:" + sh.Status),
		merkle.Hash("sgd:" + sh.SGDNumber),
		merkle.Hash(fmt.Sprintf("value:%.2f", sh.DeclaredValue)),
	}
	for _, item := range sh.Items {
		leaves = append(leaves, merkle.Hash(fmt.Sprintf("item:%s:%s:%.2f:%d", item.Name, item.HSCode, item.Value, item.Quantity)))
	}
	return leaves
}
