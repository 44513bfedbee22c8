// internal/domain/schedule.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepeatPattern controls how a recurring schedule item is expanded.
type RepeatPattern string

const (
	RepeatDaily  RepeatPattern = "daily"
	RepeatWeekly RepeatPattern = "weekly"
	RepeatYearly RepeatPattern = "yearly"
)

// Valid reports whether p is one of the known patterns.
func (p RepeatPattern) Valid() bool {
	switch p {
	case RepeatDaily, RepeatWeekly, RepeatYearly:
		return true
	}
	return false
}

// Schedule is one user's week. WeekStart is always a Sunday at midnight.
type Schedule struct {
	ID        string             `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	WeekStart time.Time          `bson:"weekStart" json:"weekStart"`
	Timezone  string             `bson:"timezone,omitempty" json:"timezone,omitempty"` // Stored only, expansion ignores it
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleItem is a single entry of a weekly schedule. Persisted items are "real";
// items computed from a recurring origin are "virtual" and never stored.
type ScheduleItem struct {
	ID         string             `bson:"_id" json:"id"`
	OriginID   string             `bson:"originId,omitempty" json:"originId,omitempty"` // Source item for virtual occurrences
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ScheduleID string             `bson:"scheduleId" json:"scheduleId,omitempty"`
	// Populated by the repository when loading. Virtual occurrences never carry it.
	Schedule *Schedule `bson:"-" json:"schedule,omitempty"`

	Day       int    `bson:"day" json:"day"`             // 0 (Sunday) .. 6 (Saturday), offset from the week start
	StartTime string `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime   string `bson:"endTime" json:"endTime"`     // "HH:MM"

	Type            string         `bson:"type,omitempty" json:"type,omitempty"` // e.g., "workout", "meal"
	Title           string         `bson:"title" json:"title"`
	Description     string         `bson:"description,omitempty" json:"description,omitempty"`
	Category        string         `bson:"category,omitempty" json:"category,omitempty"`
	Difficulty      string         `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Duration        *int           `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Calories        *int           `bson:"calories,omitempty" json:"calories,omitempty"`
	IsFromGenerator bool           `bson:"isFromGenerator" json:"isFromGenerator"`
	GeneratorData   map[string]any `bson:"generatorData,omitempty" json:"generatorData,omitempty"`
	RecurrenceRule  map[string]any `bson:"recurrenceRule,omitempty" json:"recurrenceRule,omitempty"`

	// --- Recurrence control ---
	IsRecurring      bool          `bson:"isRecurring" json:"isRecurring"`
	RepeatPattern    RepeatPattern `bson:"repeatPattern,omitempty" json:"repeatPattern,omitempty"`
	RepeatInterval   int           `bson:"repeatInterval,omitempty" json:"repeatInterval,omitempty"`
	RepeatEndsOn     *time.Time    `bson:"repeatEndsOn,omitempty" json:"repeatEndsOn,omitempty"` // Inclusive
	RepeatDaysOfWeek []int         `bson:"repeatDaysOfWeek,omitempty" json:"repeatDaysOfWeek,omitempty"`

	IsVirtual bool `bson:"-" json:"isVirtual"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
