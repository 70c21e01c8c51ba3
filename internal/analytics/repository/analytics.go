package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingrepo "labbook/internal/bookings/repository"
	"labbook/pkg/model"
)

const defaultQueryTimeout = 10 * time.Second

// StatusCount is one bucket of the status distribution.
type StatusCount struct {
	Status model.BookingStatus `json:"status" bson:"_id"`
	Count  int64               `json:"count" bson:"count"`
}

// DailyCount is one day bucket of the booking trend.
type DailyCount struct {
	Date  string `json:"date" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// LabUsage is the aggregate load on one lab over the queried range.
type LabUsage struct {
	LabID    string `json:"lab_id" bson:"_id"`
	Bookings int64  `json:"bookings" bson:"bookings"`
	Approved int64  `json:"approved" bson:"approved"`
}

// ClubActivity is the booking volume attributed to one club.
type ClubActivity struct {
	ClubID   string `json:"club_id" bson:"_id"`
	Bookings int64  `json:"bookings" bson:"bookings"`
}

type AnalyticsRepository interface {
	CountByStatus(ctx context.Context, from, to string) ([]StatusCount, error)
	CountByDay(ctx context.Context, from, to string) ([]DailyCount, error)
	LabUtilization(ctx context.Context, from, to string) ([]LabUsage, error)
	ClubActivity(ctx context.Context, from, to string) ([]ClubActivity, error)
	TotalBookings(ctx context.Context, from, to string) (int64, error)
}

type mongoAnalyticsRepository struct {
	collection *mongo.Collection
}

func NewMongoAnalyticsRepository(db *mongo.Database) AnalyticsRepository {
	return &mongoAnalyticsRepository{
		collection: db.Collection(bookingrepo.CollectionName),
	}
}

func dateRangeMatch(from, to string) bson.M {
	match := bson.M{}
	dateRange := bson.M{}
	if from != "" {
		dateRange["$gte"] = from
	}
	if to != "" {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		match["date"] = dateRange
	}
	return match
}

func (r *mongoAnalyticsRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation result: %w", err)
	}
	return nil
}

func (r *mongoAnalyticsRepository) CountByStatus(ctx context.Context, from, to string) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dateRangeMatch(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	results := make([]StatusCount, 0)
	if err := r.aggregate(ctx, pipeline, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mongoAnalyticsRepository) CountByDay(ctx context.Context, from, to string) ([]DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dateRangeMatch(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$date",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	results := make([]DailyCount, 0)
	if err := r.aggregate(ctx, pipeline, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mongoAnalyticsRepository) LabUtilization(ctx context.Context, from, to string) ([]LabUsage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dateRangeMatch(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$lab_id",
			"bookings": bson.M{"$sum": 1},
			"approved": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$status", model.StatusApproved}},
					1,
					0,
				},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookings", Value: -1}}}},
	}

	results := make([]LabUsage, 0)
	if err := r.aggregate(ctx, pipeline, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mongoAnalyticsRepository) ClubActivity(ctx context.Context, from, to string) ([]ClubActivity, error) {
	match := dateRangeMatch(from, to)
	match["club_id"] = bson.M{"$exists": true, "$ne": ""}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$club_id",
			"bookings": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookings", Value: -1}}}},
	}

	results := make([]ClubActivity, 0)
	if err := r.aggregate(ctx, pipeline, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mongoAnalyticsRepository) TotalBookings(ctx context.Context, from, to string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, dateRangeMatch(from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
