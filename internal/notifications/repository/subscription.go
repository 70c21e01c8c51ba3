package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	notifErrors "labbook/internal/notifications/errors"
	"labbook/pkg/model"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *model.PushSubscription) error
	FindByUser(ctx context.Context, userID string) ([]*model.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) error
}

type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

func NewMongoSubscriptionRepository(db *mongo.Database) SubscriptionRepository {
	return &mongoSubscriptionRepository{
		collection: db.Collection(SubscriptionCollectionName),
	}
}

// Upsert keys on the endpoint so re-registering a browser replaces the old
// keys instead of accumulating stale subscriptions.
func (r *mongoSubscriptionRepository) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"user_id":    sub.UserID,
			"p256dh":     sub.P256DH,
			"auth":       sub.Auth,
			"user_agent": sub.UserAgent,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"endpoint": sub.Endpoint},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *mongoSubscriptionRepository) FindByUser(ctx context.Context, userID string) ([]*model.PushSubscription, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := make([]*model.PushSubscription, 0)
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *mongoSubscriptionRepository) DeleteByEndpoint(ctx context.Context, userID, endpoint string) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "endpoint": endpoint})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return notifErrors.ErrNotFound
	}
	return nil
}
