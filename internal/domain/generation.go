package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationCriteria drives the schedule template generator.
type GenerationCriteria struct {
	DaysPerWeek         int      `bson:"daysPerWeek" json:"daysPerWeek"`
	PreferredDays       []int    `bson:"preferredDays,omitempty" json:"preferredDays,omitempty"`
	Difficulty          string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Focus               []string `bson:"focus,omitempty" json:"focus,omitempty"`
	PreferredStartTime  string   `bson:"preferredStartTime" json:"preferredStartTime"`
	RepeatIntervalWeeks int      `bson:"repeatIntervalWeeks" json:"repeatIntervalWeeks"`
	AllowedEquipment    []string `bson:"allowedEquipment,omitempty" json:"allowedEquipment,omitempty"`
	AllowBackToBack     bool     `bson:"allowBackToBack" json:"allowBackToBack"`
	IncludeCardio       bool     `bson:"includeCardio" json:"includeCardio"`
}

// GeneratedTemplateMetadata describes how a schedule template was produced.
type GeneratedTemplateMetadata struct {
	Source      string             `bson:"source" json:"source"`
	GeneratedAt time.Time          `bson:"generatedAt" json:"generatedAt"`
	Criteria    GenerationCriteria `bson:"criteria" json:"criteria"`
	Tags        []string           `bson:"tags" json:"tags"`
	Insights    []string           `bson:"insights" json:"insights"`
	Equipment   []string           `bson:"equipment" json:"equipment"`
}

// GeneratedScheduleTemplate is a named bundle of recurring schedule items.
type GeneratedScheduleTemplate struct {
	ID          string                    `bson:"_id" json:"id"`
	UserID      primitive.ObjectID        `bson:"userId,omitempty" json:"userId,omitempty"` // Set when saved
	Name        string                    `bson:"name" json:"name"`
	Description string                    `bson:"description" json:"description"`
	Items       []ScheduleItem            `bson:"items" json:"items"`
	Metadata    GeneratedTemplateMetadata `bson:"metadata" json:"metadata"`
	CreatedAt   time.Time                 `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}
