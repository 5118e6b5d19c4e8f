package repository

import (
	"context"
	"errors"
	"time"

	"customs_clearance_service/internal/messaging/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository durable message store
type MessageRepository interface {
	// Insert persists a new message with a fresh unique id.
	Insert(ctx context.Context, msg *domain.Message) error
	// FindByID loads one message regardless of deletion state (audit/read-receipt use).
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// MarkSeen appends a seen_by entry for userID to every listed message of the
	// shipment whose seen_by does not yet contain userID. Returns the number of
	// messages actually modified; resubmitting the same ids is a no-op.
	MarkSeen(ctx context.Context, shipmentID string, messageIDs []string, userID string, at time.Time) (int64, error)
	// FindHistory returns up to q.Limit non-deleted messages at or before the
	// cursor, oldest first.
	FindHistory(ctx context.Context, shipmentID string, q domain.HistoryQuery) ([]domain.Message, error)
	// SoftDelete stamps deleted_at; the record is excluded from history but kept.
	SoftDelete(ctx context.Context, messageID string, at time.Time) error
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository on the messages collection
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"id": messageID}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) MarkSeen(ctx context.Context, shipmentID string, messageIDs []string, userID string, at time.Time) (int64, error) {
	filter := bson.M{
		"id":              bson.M{"$in": messageIDs},
		"shipment_id":     shipmentID,
		"seen_by.user_id": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{
			"seen_by": domain.SeenBy{UserID: userID, SeenAt: at},
		},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *messageRepository) FindHistory(ctx context.Context, shipmentID string, q domain.HistoryQuery) ([]domain.Message, error) {
	filter := bson.M{
		"shipment_id": shipmentID,
		"deleted_at":  nil,
	}
	if !q.Before.IsZero() {
		filter["sent_at"] = bson.M{"$lte": q.Before}
	}
	if q.ThreadID != "" {
		filter["thread_id"] = q.ThreadID
	}

	opts := options.Find().
		SetSort(bson.M{"sent_at": -1}).
		SetLimit(q.Limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}

	// newest-first from the store, oldest-first to the caller
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, messageID string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": messageID},
		bson.M{"$set": bson.M{"deleted_at": at}},
	)
	return err
}
