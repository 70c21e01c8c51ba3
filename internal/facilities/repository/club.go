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

type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	FindByID(ctx context.Context, id string) (*model.Club, error)
	FindAll(ctx context.Context) ([]*model.Club, error)
	FindByInchargeID(ctx context.Context, userID string) ([]*model.Club, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type mongoClubRepository struct {
	collection *mongo.Collection
}

func NewMongoClubRepository(db *mongo.Database) ClubRepository {
	return &mongoClubRepository{
		collection: db.Collection(ClubCollectionName),
	}
}

func (r *mongoClubRepository) Create(ctx context.Context, club *model.Club) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, club)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return facilitiesErrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create club: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		club.ID = oid.Hex()
	}
	return nil
}

func (r *mongoClubRepository) FindByID(ctx context.Context, id string) (*model.Club, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitiesErrors.ErrInvalidID, id)
	}

	var club model.Club
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&club)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitiesErrors.ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}
	return &club, nil
}

func (r *mongoClubRepository) FindAll(ctx context.Context) ([]*model.Club, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find clubs: %w", err)
	}
	defer cursor.Close(ctx)

	clubs := make([]*model.Club, 0)
	if err := cursor.All(ctx, &clubs); err != nil {
		return nil, fmt.Errorf("failed to decode clubs: %w", err)
	}
	return clubs, nil
}

func (r *mongoClubRepository) FindByInchargeID(ctx context.Context, userID string) ([]*model.Club, error) {
	ctx, cancel := withTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"club_incharge_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find clubs by incharge: %w", err)
	}
	defer cursor.Close(ctx)

	clubs := make([]*model.Club, 0)
	if err := cursor.All(ctx, &clubs); err != nil {
		return nil, fmt.Errorf("failed to decode clubs: %w", err)
	}
	return clubs, nil
}

func (r *mongoClubRepository) Update(ctx context.Context, id string, update bson.M) error {
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
		return fmt.Errorf("failed to update club: %w", err)
	}
	if result.MatchedCount == 0 {
		return facilitiesErrors.ErrClubNotFound
	}
	return nil
}

func (r *mongoClubRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", facilitiesErrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	if result.DeletedCount == 0 {
		return facilitiesErrors.ErrClubNotFound
	}
	return nil
}
