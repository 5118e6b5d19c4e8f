package repository

import (
	"context"
	"errors"
	"time"

	"customs_clearance_service/internal/shipment/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ShipmentRepository workflow-side access to the shipments collection
type ShipmentRepository interface {
	FindByID(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	UpdateStatus(ctx context.Context, shipmentID, status string, at time.Time) error
	RecordSubmission(ctx context.Context, shipmentID string, sub domain.SGDSubmission) error
	AppendAnchor(ctx context.Context, shipmentID string, anchor domain.Anchor) error
	SetComplianceScore(ctx context.Context, shipmentID string, score int) error
}

type shipmentRepository struct {
	coll *mongo.Collection
}

// NewMongoShipmentRepository create a ShipmentRepository on the shipments collection
func NewMongoShipmentRepository(db *mongo.Database) ShipmentRepository {
	return &shipmentRepository{
		coll: db.Collection("shipments"),
	}
}

func (r *shipmentRepository) FindByID(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	var sh domain.Shipment
	err := r.coll.FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&sh)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &sh, nil
}

func (r *shipmentRepository) UpdateStatus(ctx context.Context, shipmentID, status string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": shipmentID},
		bson.M{"$set": bson.M{"status": status, "updated_at": at}},
	)
	return err
}

func (r *shipmentRepository) RecordSubmission(ctx context.Context, shipmentID string, sub domain.SGDSubmission) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": shipmentID},
		bson.M{"$set": bson.M{
			"status":       domain.StatusSGDSubmitted,
			"sgd_number":   sub.SGDNumber,
			"submitted_at": sub.SubmittedAt,
			"updated_at":   sub.SubmittedAt,
		}},
	)
	return err
}

func (r *shipmentRepository) AppendAnchor(ctx context.Context, shipmentID string, anchor domain.Anchor) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": shipmentID},
		bson.M{
			"$push": bson.M{"anchors": anchor},
			"$set":  bson.M{"updated_at": anchor.AnchoredAt},
		},
	)
	return err
}

func (r *shipmentRepository) SetComplianceScore(ctx context.Context, shipmentID string, score int) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": shipmentID},
		bson.M{"$set": bson.M{"compliance_score": score, "updated_at": time.Now().UTC()}},
	)
	return err
}
