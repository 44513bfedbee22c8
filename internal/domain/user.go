package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account of the fitness tracker.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Stored defaults for the schedule generator. Request criteria override them.
	Preferences *WorkoutPreferences `bson:"preferences,omitempty" json:"preferences,omitempty"`
}

// WorkoutPreferences are the per-user defaults merged into GenerationCriteria.
type WorkoutPreferences struct {
	DaysPerWeek        int      `bson:"daysPerWeek,omitempty" json:"daysPerWeek,omitempty"`
	PreferredDays      []int    `bson:"preferredDays,omitempty" json:"preferredDays,omitempty"`
	PreferredStartTime string   `bson:"preferredStartTime,omitempty" json:"preferredStartTime,omitempty"`
	Difficulty         string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Focus              []string `bson:"focus,omitempty" json:"focus,omitempty"`
	Equipment          []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	IncludeCardio      bool     `bson:"includeCardio" json:"includeCardio"`
	AllowBackToBack    bool     `bson:"allowBackToBack" json:"allowBackToBack"`
}
