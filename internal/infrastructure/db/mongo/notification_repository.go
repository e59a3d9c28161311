package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

const notificationCollection = "notifications"

type MongoNotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: db.Collection(notificationCollection)}
}

type mongoNotification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	Read      bool               `bson:"read"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	doc := mongoNotification{
		UserID:    n.UserID,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	out := *n
	out.ID = oid.Hex()
	return &out, nil
}

func (r *MongoNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*domain.Notification
	for cursor.Next(ctx) {
		var mn mongoNotification
		if err := cursor.Decode(&mn); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, &domain.Notification{
			ID:        mn.ID.Hex(),
			UserID:    mn.UserID,
			Title:     mn.Title,
			Body:      mn.Body,
			Read:      mn.Read,
			CreatedAt: unixToTime(mn.CreatedAt),
		})
	}
	return notifications, cursor.Err()
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "user_id": userID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.coll.UpdateMany(ctx, bson.M{"user_id": userID, "read": false}, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
