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

const scheduleItemCollectionName = "schedule_items"

// mongoScheduleItemRepository implements repository.ScheduleItemRepository
type mongoScheduleItemRepository struct {
	collection *mongo.Collection
	schedules  repository.ScheduleRepository // attaches the owning week to recurring items
}

// NewMongoScheduleItemRepository creates a new ScheduleItem repository backed by MongoDB.
func NewMongoScheduleItemRepository(db *mongo.Database, schedules repository.ScheduleRepository) repository.ScheduleItemRepository {
	return &mongoScheduleItemRepository{
		collection: db.Collection(scheduleItemCollectionName),
		schedules:  schedules,
	}
}

// Create inserts a new real schedule item.
func (r *mongoScheduleItemRepository) Create(ctx context.Context, item *domain.ScheduleItem) (string, error) {
	if item.ScheduleID == "" || item.UserID == primitive.NilObjectID {
		return "", errors.New("schedule item requires schedule ID and user ID")
	}

	item.ID = uuid.NewString()
	item.OriginID = ""
	item.IsVirtual = false
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return "", err
	}
	return item.ID, nil
}

// CreateMany inserts the items in one batch. InsertMany is not transactional, so
// on failure the documents that did land are removed again.
func (r *mongoScheduleItemRepository) CreateMany(ctx context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error) {
	if len(items) == 0 {
		return []domain.ScheduleItem{}, nil
	}

	now := time.Now().UTC()
	stored := make([]domain.ScheduleItem, len(items))
	docs := make([]interface{}, len(items))
	ids := make([]string, len(items))
	for i, item := range items {
		if item.ScheduleID == "" || item.UserID == primitive.NilObjectID {
			return nil, errors.New("schedule item requires schedule ID and user ID")
		}
		item.ID = uuid.NewString()
		item.OriginID = ""
		item.IsVirtual = false
		item.Schedule = nil
		item.CreatedAt = now
		item.UpdatedAt = now
		stored[i] = item
		docs[i] = item
		ids[i] = item.ID
	}

	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if _, delErr := r.collection.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}}); delErr != nil {
			logrus.Errorf("failed to roll back partial insert of %d schedule items: %s", len(ids), delErr)
		}
		return nil, err
	}
	return stored, nil
}

// GetByID retrieves a schedule item by its ID.
func (r *mongoScheduleItemRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleItem, error) {
	var item domain.ScheduleItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update rewrites the mutable fields of an item. Owner and schedule stay fixed.
func (r *mongoScheduleItemRepository) Update(ctx context.Context, item *domain.ScheduleItem) error {
	if item.ID == "" {
		return errors.New("schedule item ID is required for update")
	}

	item.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": item.ID, "userId": item.UserID}
	update := bson.M{
		"$set": bson.M{
			"day":              item.Day,
			"startTime":        item.StartTime,
			"endTime":          item.EndTime,
			"type":             item.Type,
			"title":            item.Title,
			"description":      item.Description,
			"category":         item.Category,
			"difficulty":       item.Difficulty,
			"duration":         item.Duration,
			"calories":         item.Calories,
			"isFromGenerator":  item.IsFromGenerator,
			"generatorData":    item.GeneratorData,
			"recurrenceRule":   item.RecurrenceRule,
			"isRecurring":      item.IsRecurring,
			"repeatPattern":    item.RepeatPattern,
			"repeatInterval":   item.RepeatInterval,
			"repeatEndsOn":     item.RepeatEndsOn,
			"repeatDaysOfWeek": item.RepeatDaysOfWeek,
			"updatedAt":        item.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an item, ensuring it belongs to the specified user.
func (r *mongoScheduleItemRepository) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListBySchedule returns the real items stored in one week.
func (r *mongoScheduleItemRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.ScheduleItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "startTime", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"scheduleId": scheduleID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.ScheduleItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRecurringByUser returns every recurring item of the user with its Schedule attached.
// Items whose schedule no longer exists are returned without one and are skipped by expansion.
func (r *mongoScheduleItemRepository) ListRecurringByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ScheduleItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "isRecurring": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.ScheduleItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ScheduleID]; ok {
			continue
		}
		seen[item.ScheduleID] = struct{}{}
		ids = append(ids, item.ScheduleID)
	}

	schedules, err := r.schedules.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Schedule, len(schedules))
	for i := range schedules {
		byID[schedules[i].ID] = &schedules[i]
	}
	for i := range items {
		items[i].Schedule = byID[items[i].ScheduleID]
	}

	return items, nil
}

// EnsureScheduleItemIndexes creates necessary indexes for the schedule_items collection.
func EnsureScheduleItemIndexes(ctx context.Context, db *mongo.Database) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scheduleId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index(),
		},
		{
			// Recurring sources of a user, read on every week view
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isRecurring", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := db.Collection(scheduleItemCollectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %s", scheduleItemCollectionName, err)
	}
}
