package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customs_clearance_service/internal/messaging/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShipmentRepository messaging-side view of the shipments collection
type ShipmentRepository interface {
	// FindByID loads a shipment without an access check.
	FindByID(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	// FindWithAccess loads the shipment only if userID is its creator, its
	// assigned officer or one of its participants; (nil, nil) otherwise.
	FindWithAccess(ctx context.Context, shipmentID, userID string) (*domain.Shipment, error)
	// FindAccessibleIDs lists ids of shipments the user can access, capped at limit.
	FindAccessibleIDs(ctx context.Context, userID string, limit int64) ([]string, error)
	// RecordMessage stamps last_message_at and increments the unread counter of
	// every participant except the sender, in one atomic update.
	RecordMessage(ctx context.Context, shipmentID, senderID string, participantIDs []string, at time.Time) error
	// ResetUnread zeroes the caller's unread counter for the shipment.
	ResetUnread(ctx context.Context, shipmentID, userID string) error
	// FindUnreadSummaries returns per-shipment unread rows for the user,
	// most recently active first.
	FindUnreadSummaries(ctx context.Context, userID string) ([]domain.ShipmentUnread, error)
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

func accessFilter(userID string) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"created_by": userID},
			{"assigned_officer_id": userID},
			{"participants.user_id": userID},
		},
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

func (r *shipmentRepository) FindWithAccess(ctx context.Context, shipmentID, userID string) (*domain.Shipment, error) {
	filter := bson.M{
		"_id": shipmentID,
		"$or": accessFilter(userID)["$or"],
	}
	var sh domain.Shipment
	err := r.coll.FindOne(ctx, filter).Decode(&sh)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &sh, nil
}

func (r *shipmentRepository) FindAccessibleIDs(ctx context.Context, userID string, limit int64) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"last_message_at": -1}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, accessFilter(userID), opts)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *shipmentRepository) RecordMessage(ctx context.Context, shipmentID, senderID string, participantIDs []string, at time.Time) error {
	inc := bson.M{}
	for _, pid := range participantIDs {
		if pid == senderID {
			continue
		}
		inc[fmt.Sprintf("unread_count_by_user.%s", pid)] = 1
	}

	update := bson.M{
		"$set": bson.M{"last_message_at": at},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": shipmentID}, update)
	return err
}

func (r *shipmentRepository) ResetUnread(ctx context.Context, shipmentID, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": shipmentID},
		bson.M{"$set": bson.M{fmt.Sprintf("unread_count_by_user.%s", userID): 0}},
	)
	return err
}

func (r *shipmentRepository) FindUnreadSummaries(ctx context.Context, userID string) ([]domain.ShipmentUnread, error) {
	opts := options.Find().SetSort(bson.M{"last_message_at": -1})

	cur, err := r.coll.Find(ctx, accessFilter(userID), opts)
	if err != nil {
		return nil, err
	}

	var shipments []domain.Shipment
	if err := cur.All(ctx, &shipments); err != nil {
		return nil, err
	}

	summaries := make([]domain.ShipmentUnread, 0, len(shipments))
	for _, sh := range shipments {
		summaries = append(summaries, domain.ShipmentUnread{
			ShipmentID:    sh.ID,
			BLNumber:      sh.BLNumber,
			UnreadCount:   sh.UnreadFor(userID),
			LastMessageAt: sh.LastMessageAt,
		})
	}
	return summaries, nil
}
