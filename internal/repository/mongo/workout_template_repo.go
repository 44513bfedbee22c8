package mongo

import (
	"context"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutTemplateCollectionName = "workout_templates"

// mongoWorkoutTemplateRepository implements repository.WorkoutTemplateRepository
type mongoWorkoutTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutTemplateRepository creates a new WorkoutTemplate repository backed by MongoDB.
func NewMongoWorkoutTemplateRepository(db *mongo.Database) repository.WorkoutTemplateRepository {
	return &mongoWorkoutTemplateRepository{
		collection: db.Collection(workoutTemplateCollectionName),
	}
}

// ListCandidates returns the templates a user may be scheduled with.
func (r *mongoWorkoutTemplateRepository) ListCandidates(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"userId": userID},
			bson.M{"isPredefined": true},
			bson.M{"isPublic": true},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "usageCount", Value: -1}, {Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.WorkoutTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// IncrementUsage bumps usageCount once per id occurrence.
func (r *mongoWorkoutTemplateRepository) IncrementUsage(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}

	models := make([]mongo.WriteModel, 0, len(counts))
	for id, n := range counts {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$inc": bson.M{"usageCount": n}}))
	}

	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

// EnsureWorkoutTemplateIndexes creates necessary indexes for the workout_templates collection.
func EnsureWorkoutTemplateIndexes(ctx context.Context, db *mongo.Database) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetSparse(true), // predefined templates have no owner
		},
		{
			Keys:    bson.D{{Key: "usageCount", Value: -1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := db.Collection(workoutTemplateCollectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %s", workoutTemplateCollectionName, err)
	}
}
