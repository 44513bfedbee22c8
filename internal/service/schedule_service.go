package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-schedule/internal/calendar"
	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/generator"
	"alcyxob/fitness-schedule/internal/metrics"
	"alcyxob/fitness-schedule/internal/recurrence"
	"alcyxob/fitness-schedule/internal/repository"
	"alcyxob/fitness-schedule/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const icsContentType = "text/calendar; charset=utf-8"

// ScheduleItemInput carries the user editable fields of a real schedule item.
type ScheduleItemInput struct {
	WeekOf   time.Time // any date inside the target week, only used on create
	Timezone string

	Day         int
	StartTime   string
	EndTime     string
	Type        string
	Title       string
	Description string
	Category    string
	Difficulty  string
	Duration    *int
	Calories    *int

	IsRecurring      bool
	RepeatPattern    domain.RepeatPattern
	RepeatInterval   int
	RepeatEndsOn     *time.Time
	RepeatDaysOfWeek []int
}

// WeekView is the merged content of one week.
type WeekView struct {
	WeekStart time.Time             `json:"weekStart"`
	Items     []domain.ScheduleItem `json:"items"`
}

// WeekExport points at an uploaded iCalendar file.
type WeekExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ScheduleService interface {
	// GetWeek returns real items of the week containing date merged with the
	// virtual occurrences of the user's recurring items.
	GetWeek(ctx context.Context, userID primitive.ObjectID, date time.Time) (*WeekView, error)
	CreateItem(ctx context.Context, userID primitive.ObjectID, input ScheduleItemInput) (*domain.ScheduleItem, error)
	UpdateItem(ctx context.Context, userID primitive.ObjectID, itemID string, input ScheduleItemInput) (*domain.ScheduleItem, error)
	DeleteItem(ctx context.Context, userID primitive.ObjectID, itemID string) error
	ExportWeek(ctx context.Context, userID primitive.ObjectID, date time.Time) (*WeekExport, error)
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	itemRepo     repository.ScheduleItemRepository
	fileStorage  storage.FileStorage
	metrics      *metrics.Manager
	now          func() time.Time
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	itemRepo repository.ScheduleItemRepository,
	fileStorage storage.FileStorage,
	metricsManager *metrics.Manager,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		itemRepo:     itemRepo,
		fileStorage:  fileStorage,
		metrics:      metricsManager,
		now:          time.Now,
	}
}

func (s *scheduleService) GetWeek(ctx context.Context, userID primitive.ObjectID, date time.Time) (*WeekView, error) {
	weekStart := recurrence.StartOfWeek(date)

	var realItems []domain.ScheduleItem
	schedule, err := s.scheduleRepo.GetByUserAndWeek(ctx, userID, weekStart)
	switch {
	case err == nil:
		realItems, err = s.itemRepo.ListBySchedule(ctx, schedule.ID)
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	recurring, err := s.itemRepo.ListRecurringByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := recurrence.MergeWeek(realItems, recurring, weekStart)

	virtual := 0
	for _, item := range items {
		if item.IsVirtual {
			virtual++
		}
	}
	s.metrics.CounterVirtualOccurrences.Add(float64(virtual))

	logrus.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"weekStart": recurrence.WeekKey(weekStart),
		"real":      len(realItems),
		"virtual":   virtual,
	}).Debug("week merged")

	return &WeekView{WeekStart: weekStart, Items: items}, nil
}

func (s *scheduleService) CreateItem(ctx context.Context, userID primitive.ObjectID, input ScheduleItemInput) (*domain.ScheduleItem, error) {
	if input.WeekOf.IsZero() {
		return nil, ErrValidation("date is required")
	}

	item := &domain.ScheduleItem{UserID: userID}
	if err := applyInput(item, input); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetOrCreate(ctx, userID, recurrence.StartOfWeek(input.WeekOf), input.Timezone)
	if err != nil {
		return nil, err
	}
	item.ScheduleID = schedule.ID

	if _, err = s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Schedule = schedule
	return item, nil
}

func (s *scheduleService) UpdateItem(ctx context.Context, userID primitive.ObjectID, itemID string, input ScheduleItemInput) (*domain.ScheduleItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err = applyInput(item, input); err != nil {
		return nil, err
	}
	if err = s.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *scheduleService) DeleteItem(ctx context.Context, userID primitive.ObjectID, itemID string) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	return nil
}

// ExportWeek renders the merged week as iCalendar, uploads it and returns a download link.
func (s *scheduleService) ExportWeek(ctx context.Context, userID primitive.ObjectID, date time.Time) (*WeekExport, error) {
	view, err := s.GetWeek(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	body := calendar.RenderWeek(view.WeekStart, view.Items, now)
	key := fmt.Sprintf("exports/%s/%s-%s.ics", userID.Hex(), recurrence.WeekKey(view.WeekStart), uuid.NewString())

	if err = s.fileStorage.PutObject(ctx, key, icsContentType, []byte(body)); err != nil {
		logrus.Errorf("upload of calendar export %s failed: %s", key, err)
		return nil, ErrExportFailed
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		logrus.Errorf("presigning calendar export %s failed: %s", key, err)
		// Nobody can download it, drop the orphan.
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			logrus.Warnf("cleanup of calendar export %s failed: %s", key, delErr)
		}
		return nil, ErrExportFailed
	}

	s.metrics.CounterCalendarExports.Inc()
	return &WeekExport{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(storage.DefaultPresignedURLExpiry).UTC(),
	}, nil
}

func (s *scheduleService) ownedItem(ctx context.Context, userID primitive.ObjectID, itemID string) (*domain.ScheduleItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrItemAccessDenied
	}
	return item, nil
}

// applyInput validates input and copies it onto item.
func applyInput(item *domain.ScheduleItem, in ScheduleItemInput) error {
	if in.Title == "" {
		return ErrValidation("title is required")
	}
	if in.Day < 0 || in.Day > 6 {
		return ErrValidation("day must be between 0 (Sunday) and 6 (Saturday)")
	}
	if !generator.ValidClock(in.StartTime) {
		return ErrValidation("startTime must be HH:MM")
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return ErrValidation("duration must be positive")
	}
	endTime := in.EndTime
	if endTime == "" && in.Duration != nil {
		endTime = generator.AddMinutes(in.StartTime, *in.Duration)
	}
	if !generator.ValidClock(endTime) {
		return ErrValidation("endTime must be HH:MM")
	}

	item.Day = in.Day
	item.StartTime = in.StartTime
	item.EndTime = endTime
	item.Type = in.Type
	item.Title = in.Title
	item.Description = in.Description
	item.Category = in.Category
	item.Difficulty = in.Difficulty
	item.Duration = in.Duration
	item.Calories = in.Calories

	item.IsRecurring = in.IsRecurring
	if !in.IsRecurring {
		item.RepeatPattern = ""
		item.RepeatInterval = 0
		item.RepeatEndsOn = nil
		item.RepeatDaysOfWeek = nil
		item.RecurrenceRule = nil
		return nil
	}

	pattern := in.RepeatPattern
	if pattern == "" {
		pattern = domain.RepeatWeekly
	}
	if !pattern.Valid() {
		return ErrValidation("repeatPattern must be daily, weekly or yearly")
	}
	interval := in.RepeatInterval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return ErrValidation("repeatInterval must be at least 1")
	}
	for _, d := range in.RepeatDaysOfWeek {
		if d < 0 || d > 6 {
			return ErrValidation("repeatDaysOfWeek entries must be between 0 and 6")
		}
	}

	item.RepeatPattern = pattern
	item.RepeatInterval = interval
	item.RepeatEndsOn = in.RepeatEndsOn
	item.RepeatDaysOfWeek = in.RepeatDaysOfWeek
	item.RecurrenceRule = map[string]any{
		"pattern":  string(pattern),
		"interval": interval,
	}
	if len(in.RepeatDaysOfWeek) > 0 {
		days := make([]any, len(in.RepeatDaysOfWeek))
		for i, d := range in.RepeatDaysOfWeek {
			days[i] = d
		}
		item.RecurrenceRule["daysOfWeek"] = days
	}
	return nil
}
