package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scheduleCollectionName = "schedules"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new Schedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// GetOrCreate upserts the (userId, weekStart) document and returns it.
func (r *mongoScheduleRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID, weekStart time.Time, timezone string) (*domain.Schedule, error) {
	now := time.Now().UTC()
	filter := bson.M{"userId": userID, "weekStart": weekStart}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"timezone":  timezone,
			"createdAt": now,
		},
		"$set": bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var schedule domain.Schedule
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&schedule)
	if err != nil {
		// Two concurrent upserts can race on the unique index; the loser reads the winner.
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByUserAndWeek(ctx, userID, weekStart)
		}
		return nil, err
	}
	return &schedule, nil
}

// GetByUserAndWeek retrieves the schedule of a user for the week starting at weekStart.
func (r *mongoScheduleRepository) GetByUserAndWeek(ctx context.Context, userID primitive.ObjectID, weekStart time.Time) (*domain.Schedule, error) {
	var schedule domain.Schedule
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "weekStart": weekStart}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// GetByIDs loads the schedules with the given ids. Unknown ids are skipped.
func (r *mongoScheduleRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Schedule, error) {
	if len(ids) == 0 {
		return []domain.Schedule{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []domain.Schedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// EnsureScheduleIndexes creates necessary indexes for the schedules collection.
func EnsureScheduleIndexes(ctx context.Context, db *mongo.Database) {
	indexes := []mongo.IndexModel{
		{
			// One schedule per user and week
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekStart", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection(scheduleCollectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %s", scheduleCollectionName, err)
	}
}
