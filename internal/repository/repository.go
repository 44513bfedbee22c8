package repository

import (
	"context"
	"time"

	"alcyxob/fitness-schedule/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs domain.WorkoutPreferences) error
}

// ScheduleRepository stores one Schedule document per (user, week start).
type ScheduleRepository interface {
	// GetOrCreate returns the week's schedule, inserting it when missing.
	GetOrCreate(ctx context.Context, userID primitive.ObjectID, weekStart time.Time, timezone string) (*domain.Schedule, error)
	GetByUserAndWeek(ctx context.Context, userID primitive.ObjectID, weekStart time.Time) (*domain.Schedule, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Schedule, error)
}

// ScheduleItemRepository defines the interface for real (persisted) schedule items.
type ScheduleItemRepository interface {
	Create(ctx context.Context, item *domain.ScheduleItem) (string, error)
	// CreateMany inserts all items or none of them and returns the stored copies.
	CreateMany(ctx context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error)
	GetByID(ctx context.Context, id string) (*domain.ScheduleItem, error)
	Update(ctx context.Context, item *domain.ScheduleItem) error
	Delete(ctx context.Context, id string, userID primitive.ObjectID) error // Ensure the user owns the item
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.ScheduleItem, error)
	// ListRecurringByUser returns every recurring item of the user with Schedule attached.
	ListRecurringByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ScheduleItem, error)
}

// WorkoutTemplateRepository reads the candidate pool of the generator.
type WorkoutTemplateRepository interface {
	// ListCandidates returns user-owned, predefined and public templates,
	// most used first, then most recently updated.
	ListCandidates(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	IncrementUsage(ctx context.Context, ids []string) error
}

// ScheduleTemplateRepository stores generated schedule templates saved by users.
type ScheduleTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.GeneratedScheduleTemplate) (string, error)
	GetByID(ctx context.Context, id string) (*domain.GeneratedScheduleTemplate, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error)
}
