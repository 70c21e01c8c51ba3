package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	facilitiesErrors "labbook/internal/facilities/errors"
	"labbook/pkg/model"
)

const (
	LabCollectionName  = "labs"
	ClubCollectionName = "clubs"

	defaultQueryTimeout = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

type LabRepository interface {
	Create(ctx context.Context, lab *model.Lab) error
	FindByID(ctx context.Context, id string) (*model.Lab, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*model.Lab, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type mongoLabRepository struct {
	collection *mongo.Collection
}

func NewMongoLabRepository(db *mongo.Database) LabRepository {
	return &mongoLabRepository{
		collection: db.Collection(LabCollectionName),
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func (r *mongoLabRepository) Create(ctx context.Context, lab *model.Lab) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lab.CreatedAt = now
	lab.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, lab)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return facilitiesErrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create lab: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lab.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLabRepository) FindByID(ctx context.Context, id string) (*model.Lab, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitiesErrors.ErrInvalidID, id)
	}

	var lab model.Lab
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lab)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitiesErrors.ErrLabNotFound
		}
		return nil, fmt.Errorf("failed to find lab: %w", err)
	}
	return &lab, nil
}

func (r *mongoLabRepository) FindAll(ctx context.Context, activeOnly bool) ([]*model.Lab, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find labs: %w", err)
	}
	defer cursor.Close(ctx)

	labs := make([]*model.Lab, 0)
	if err := cursor.All(ctx, &labs); err != nil {
		return nil, fmt.Errorf("failed to decode labs: %w", err)
	}
	return labs, nil
}

func (r *mongoLabRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", facilitiesErrors.ErrInvalidID, id)
	}

	update["updated_at"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("failed to update lab: %w", err)
	}
	if result.MatchedCount == 0 {
		return facilitiesErrors.ErrLabNotFound
	}
	return nil
}

func (r *mongoLabRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", facilitiesErrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete lab: %w", err)
	}
	if result.DeletedCount == 0 {
		return facilitiesErrors.ErrLabNotFound
	}
	return nil
}
