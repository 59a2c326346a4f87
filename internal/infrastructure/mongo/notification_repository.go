package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/public/domain"
)

// NotificationRepository implements application.NotificationRepository using MongoDB.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database, collectionName string) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection(collectionName)}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	now := time.Now()
	doc := NotificationDocument{
		ID:          primitive.NewObjectID(),
		RecipientID: notification.RecipientID,
		Type:        string(notification.Type),
		Title:       notification.Title,
		Message:     notification.Message,
		Read:        false,
		ShopID:      notification.ShopID,
		ReviewID:    notification.ReviewID,
		CreatedAt:   now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	notification.ID = doc.ID.Hex()
	notification.CreatedAt = now
	return nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipientID string, paging application.Paging) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		opts.SetLimit(int64(paging.Limit))
		opts.SetSkip(paging.Skip())
	}
	cursor, err := r.collection.Find(ctx, bson.M{"recipientId": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]domain.Notification, 0)
	for cursor.Next(ctx) {
		var doc NotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		notifications = append(notifications, mapNotificationDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag. The recipient filter keeps users from
// touching each other's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: notification %s", application.ErrNotFound, id)
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "recipientId": recipientID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: notification %s", application.ErrNotFound, id)
	}
	return nil
}
