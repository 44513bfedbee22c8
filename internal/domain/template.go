// internal/domain/template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateExercise is one exercise inside a workout template.
type TemplateExercise struct {
	Name         string   `bson:"name" json:"name"`
	TargetSets   int      `bson:"targetSets" json:"targetSets"`
	TargetReps   string   `bson:"targetReps" json:"targetReps"` // "8-12", "30s", ...
	RestSeconds  int      `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Instructions string   `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Muscles      []string `bson:"muscles,omitempty" json:"muscles,omitempty"`
	Equipment    []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
}

// WorkoutTemplate is a reusable workout the generator can place on a weekday.
type WorkoutTemplate struct {
	ID                string              `bson:"_id" json:"id"`
	UserID            *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // nil for predefined templates
	Name              string              `bson:"name" json:"name"`
	Description       string              `bson:"description,omitempty" json:"description,omitempty"`
	Category          string              `bson:"category,omitempty" json:"category,omitempty"`
	Difficulty        string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	EstimatedDuration int                 `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	Exercises         []TemplateExercise  `bson:"exercises" json:"exercises"`
	IsPredefined      bool                `bson:"isPredefined" json:"isPredefined"`
	IsPublic          bool                `bson:"isPublic" json:"isPublic"`
	UsageCount        int                 `bson:"usageCount" json:"usageCount"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
