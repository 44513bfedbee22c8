package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitness-schedule/internal/config"
	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/generator"
	"alcyxob/fitness-schedule/internal/metrics"
	"alcyxob/fitness-schedule/internal/recurrence"
	"alcyxob/fitness-schedule/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultDaysPerWeek = 3

// GenerateRequest holds the criteria sent by the client. Nil or empty fields
// fall back to the user's stored preferences.
type GenerateRequest struct {
	DaysPerWeek         *int
	PreferredDays       []int
	Difficulty          string
	Focus               []string
	PreferredStartTime  string
	RepeatIntervalWeeks *int
	AllowedEquipment    []string
	AllowBackToBack     *bool
	IncludeCardio       *bool
	Count               *int
}

type GeneratorService interface {
	GenerateTemplates(ctx context.Context, userID primitive.ObjectID, req GenerateRequest) ([]domain.GeneratedScheduleTemplate, error)
	SaveTemplate(ctx context.Context, userID primitive.ObjectID, tpl domain.GeneratedScheduleTemplate) (*domain.GeneratedScheduleTemplate, error)
	ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error)
	// ApplyTemplate copies the template's items into the week containing date as real recurring items.
	ApplyTemplate(ctx context.Context, userID primitive.ObjectID, templateID string, date time.Time) ([]domain.ScheduleItem, error)
	UpdatePreferences(ctx context.Context, userID primitive.ObjectID, prefs domain.WorkoutPreferences) (*domain.WorkoutPreferences, error)
}

// generatorService implements the GeneratorService interface.
type generatorService struct {
	userRepo         repository.UserRepository
	workoutRepo      repository.WorkoutTemplateRepository
	scheduleTplRepo  repository.ScheduleTemplateRepository
	scheduleRepo     repository.ScheduleRepository
	itemRepo         repository.ScheduleItemRepository
	gen              *generator.Generator
	defaultStartTime string
	defaultCount     int
	metrics          *metrics.Manager
}

// NewGeneratorService creates a new instance of generatorService.
func NewGeneratorService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutTemplateRepository,
	scheduleTplRepo repository.ScheduleTemplateRepository,
	scheduleRepo repository.ScheduleRepository,
	itemRepo repository.ScheduleItemRepository,
	gen *generator.Generator,
	cfg config.GeneratorConfig,
	metricsManager *metrics.Manager,
) GeneratorService {
	if gen == nil {
		gen = generator.New()
	}
	startTime := cfg.DefaultStartTime
	if !generator.ValidClock(startTime) {
		startTime = generator.DefaultStartTime
	}
	count := cfg.DefaultCount
	if count < 1 || count > generator.MaxTemplates {
		count = generator.MaxTemplates
	}
	return &generatorService{
		userRepo:         userRepo,
		workoutRepo:      workoutRepo,
		scheduleTplRepo:  scheduleTplRepo,
		scheduleRepo:     scheduleRepo,
		itemRepo:         itemRepo,
		gen:              gen,
		defaultStartTime: startTime,
		defaultCount:     count,
		metrics:          metricsManager,
	}
}

func (s *generatorService) GenerateTemplates(ctx context.Context, userID primitive.ObjectID, req GenerateRequest) ([]domain.GeneratedScheduleTemplate, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if req.PreferredStartTime != "" && !generator.ValidClock(req.PreferredStartTime) {
		return nil, ErrValidation("preferredStartTime must be HH:MM")
	}

	criteria := s.mergeCriteria(user.Preferences, req)
	count := s.defaultCount
	if req.Count != nil {
		count = *req.Count
	}

	candidates, err := s.workoutRepo.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}
	primary, backup := splitCandidates(candidates, criteria)

	templates := s.gen.Generate(primary, criteria, count, backup)
	if len(templates) == 0 {
		return nil, ErrNoCandidates
	}
	s.metrics.CounterGeneratedTemplates.Add(float64(len(templates)))

	logrus.WithFields(logrus.Fields{
		"userId":     userID.Hex(),
		"candidates": len(candidates),
		"primary":    len(primary),
		"templates":  len(templates),
	}).Info("schedule templates generated")

	return templates, nil
}

func (s *generatorService) SaveTemplate(ctx context.Context, userID primitive.ObjectID, tpl domain.GeneratedScheduleTemplate) (*domain.GeneratedScheduleTemplate, error) {
	if strings.TrimSpace(tpl.Name) == "" {
		return nil, ErrValidation("template name is required")
	}
	if len(tpl.Items) == 0 {
		return nil, ErrValidation("template has no items")
	}
	for _, item := range tpl.Items {
		if item.Day < 0 || item.Day > 6 || !generator.ValidClock(item.StartTime) {
			return nil, ErrValidation("template item has an invalid day or start time")
		}
	}

	tpl.UserID = userID
	if _, err := s.scheduleTplRepo.Create(ctx, &tpl); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTemplateAlreadySaved
		}
		return nil, err
	}
	return &tpl, nil
}

func (s *generatorService) ListTemplates(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error) {
	templates, err := s.scheduleTplRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []domain.GeneratedScheduleTemplate{}
	}
	return templates, nil
}

func (s *generatorService) ApplyTemplate(ctx context.Context, userID primitive.ObjectID, templateID string, date time.Time) ([]domain.ScheduleItem, error) {
	tpl, err := s.scheduleTplRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if tpl.UserID != userID {
		return nil, ErrTemplateAccessDenied
	}

	schedule, err := s.scheduleRepo.GetOrCreate(ctx, userID, recurrence.StartOfWeek(date), "")
	if err != nil {
		return nil, err
	}

	items := make([]domain.ScheduleItem, 0, len(tpl.Items))
	usedTemplates := make([]string, 0, len(tpl.Items))
	for _, src := range tpl.Items {
		item := src
		item.UserID = userID
		item.ScheduleID = schedule.ID
		item.Schedule = nil
		items = append(items, item)

		if id, ok := item.GeneratorData["templateId"].(string); ok && id != "" {
			usedTemplates = append(usedTemplates, id)
		}
	}

	// All or nothing, a retried apply must not duplicate items.
	created, err := s.itemRepo.CreateMany(ctx, items)
	if err != nil {
		return nil, err
	}
	for i := range created {
		created[i].Schedule = schedule
	}

	// Usage only affects candidate ordering, a failure here must not undo the apply.
	if err = s.workoutRepo.IncrementUsage(ctx, usedTemplates); err != nil {
		logrus.Warnf("failed to increment usage of workout templates %v: %s", usedTemplates, err)
	}

	return created, nil
}

func (s *generatorService) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, prefs domain.WorkoutPreferences) (*domain.WorkoutPreferences, error) {
	if prefs.DaysPerWeek < 0 || prefs.DaysPerWeek > 7 {
		return nil, ErrValidation("daysPerWeek must be between 1 and 7")
	}
	if prefs.PreferredStartTime != "" && !generator.ValidClock(prefs.PreferredStartTime) {
		return nil, ErrValidation("preferredStartTime must be HH:MM")
	}
	for _, d := range prefs.PreferredDays {
		if d < 0 || d > 6 {
			return nil, ErrValidation("preferredDays entries must be between 0 and 6")
		}
	}

	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

// mergeCriteria lays the request over the stored preferences.
func (s *generatorService) mergeCriteria(prefs *domain.WorkoutPreferences, req GenerateRequest) domain.GenerationCriteria {
	c := domain.GenerationCriteria{
		DaysPerWeek:         defaultDaysPerWeek,
		PreferredStartTime:  s.defaultStartTime,
		RepeatIntervalWeeks: 1,
	}
	if prefs != nil {
		if prefs.DaysPerWeek > 0 {
			c.DaysPerWeek = prefs.DaysPerWeek
		}
		if prefs.PreferredStartTime != "" {
			c.PreferredStartTime = prefs.PreferredStartTime
		}
		c.PreferredDays = prefs.PreferredDays
		c.Difficulty = prefs.Difficulty
		c.Focus = prefs.Focus
		c.AllowedEquipment = prefs.Equipment
		c.IncludeCardio = prefs.IncludeCardio
		c.AllowBackToBack = prefs.AllowBackToBack
	}

	if req.DaysPerWeek != nil && *req.DaysPerWeek > 0 {
		c.DaysPerWeek = *req.DaysPerWeek
	}
	if len(req.PreferredDays) > 0 {
		c.PreferredDays = req.PreferredDays
	}
	if req.Difficulty != "" {
		c.Difficulty = req.Difficulty
	}
	if len(req.Focus) > 0 {
		c.Focus = req.Focus
	}
	if req.PreferredStartTime != "" {
		c.PreferredStartTime = req.PreferredStartTime
	}
	if req.RepeatIntervalWeeks != nil && *req.RepeatIntervalWeeks > 0 {
		c.RepeatIntervalWeeks = *req.RepeatIntervalWeeks
	}
	if len(req.AllowedEquipment) > 0 {
		c.AllowedEquipment = req.AllowedEquipment
	}
	if req.AllowBackToBack != nil {
		c.AllowBackToBack = *req.AllowBackToBack
	}
	if req.IncludeCardio != nil {
		c.IncludeCardio = *req.IncludeCardio
	}
	return c
}

// splitCandidates puts templates matching the difficulty and focus into the
// primary pool and everything else into the backup pool.
func splitCandidates(candidates []domain.WorkoutTemplate, c domain.GenerationCriteria) (primary, backup []domain.WorkoutTemplate) {
	if c.Difficulty == "" && len(c.Focus) == 0 {
		return candidates, nil
	}
	for _, t := range candidates {
		if matchesCriteria(t, c) {
			primary = append(primary, t)
		} else {
			backup = append(backup, t)
		}
	}
	return primary, backup
}

func matchesCriteria(t domain.WorkoutTemplate, c domain.GenerationCriteria) bool {
	if c.Difficulty != "" && !strings.EqualFold(t.Difficulty, c.Difficulty) {
		return false
	}
	if len(c.Focus) == 0 {
		return true
	}
	category := strings.ToLower(t.Category)
	for _, f := range c.Focus {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && strings.Contains(category, f) {
			return true
		}
	}
	return false
}
