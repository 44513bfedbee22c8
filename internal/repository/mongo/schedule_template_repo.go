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

const scheduleTemplateCollectionName = "schedule_templates"

// mongoScheduleTemplateRepository implements repository.ScheduleTemplateRepository
type mongoScheduleTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleTemplateRepository creates a new repository for saved generated templates.
func NewMongoScheduleTemplateRepository(db *mongo.Database) repository.ScheduleTemplateRepository {
	return &mongoScheduleTemplateRepository{
		collection: db.Collection(scheduleTemplateCollectionName),
	}
}

// Create stores a generated template. Generated ids are kept, missing ones are assigned.
func (r *mongoScheduleTemplateRepository) Create(ctx context.Context, tpl *domain.GeneratedScheduleTemplate) (string, error) {
	if tpl.UserID == primitive.NilObjectID {
		return "", errors.New("schedule template requires user ID")
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	tpl.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, tpl); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return tpl.ID, nil
}

// GetByID retrieves a saved template by its ID.
func (r *mongoScheduleTemplateRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedScheduleTemplate, error) {
	var tpl domain.GeneratedScheduleTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// ListByUser returns the saved templates of a user, newest first.
func (r *mongoScheduleTemplateRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.GeneratedScheduleTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// EnsureScheduleTemplateIndexes creates necessary indexes for the schedule_templates collection.
func EnsureScheduleTemplateIndexes(ctx context.Context, db *mongo.Database) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := db.Collection(scheduleTemplateCollectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %s", scheduleTemplateCollectionName, err)
	}
}
