package app

import (
	"context"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/internal/messaging/repository"
	"customs_clearance_service/pkg/token"
)

// autoJoinLimit caps the number of rooms a fresh connection is placed into.
const autoJoinLimit = 50

// RoomUseCase room membership and access decisions
type RoomUseCase struct {
	shipments repository.ShipmentRepository
}

// NewRoomUseCase create a RoomUseCase
func NewRoomUseCase(shipments repository.ShipmentRepository) *RoomUseCase {
	return &RoomUseCase{shipments: shipments}
}

// Authorize returns the shipment if the caller may join its room.
// Admins may enter any existing room; everyone else must be the creator,
// the assigned officer or a participant. Missing shipments and missing
// access are indistinguishable to the caller.
func (uc *RoomUseCase) Authorize(ctx context.Context, shipmentID string, id domain.Identity) (*domain.Shipment, error) {
	var (
		sh  *domain.Shipment
		err error
	)
	if id.Role == string(token.RoleAdmin) {
		sh, err = uc.shipments.FindByID(ctx, shipmentID)
	} else {
		sh, err = uc.shipments.FindWithAccess(ctx, shipmentID, id.UserID)
	}
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, domain.ErrAccessDenied
	}
	return sh, nil
}

// AccessibleShipmentIDs lists the rooms a connection is auto-joined into.
func (uc *RoomUseCase) AccessibleShipmentIDs(ctx context.Context, userID string) ([]string, error) {
	return uc.shipments.FindAccessibleIDs(ctx, userID, autoJoinLimit)
}
