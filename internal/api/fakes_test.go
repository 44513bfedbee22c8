package api_test

import (
	"context"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const validToken = "valid-token"

type authServiceFake struct {
	userID primitive.ObjectID
	err    error
}

func (f *authServiceFake) Register(_ context.Context, name, email, _ string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: f.userID, Name: name, Email: email}, nil
}

func (f *authServiceFake) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return validToken, &domain.User{ID: f.userID, Email: email}, nil
}

func (f *authServiceFake) ParseToken(token string) (string, error) {
	if token != validToken {
		return "", service.ErrInvalidToken
	}
	return f.userID.Hex(), nil
}

type scheduleServiceFake struct {
	lastUserID primitive.ObjectID
	lastDate   time.Time
	lastInput  service.ScheduleItemInput
	lastItemID string
	items      []domain.ScheduleItem
	err        error
}

func (f *scheduleServiceFake) GetWeek(_ context.Context, userID primitive.ObjectID, date time.Time) (*service.WeekView, error) {
	f.lastUserID, f.lastDate = userID, date
	if f.err != nil {
		return nil, f.err
	}
	weekStart := date.AddDate(0, 0, -int(date.Weekday()))
	return &service.WeekView{WeekStart: weekStart, Items: f.items}, nil
}

func (f *scheduleServiceFake) CreateItem(_ context.Context, userID primitive.ObjectID, input service.ScheduleItemInput) (*domain.ScheduleItem, error) {
	f.lastUserID, f.lastInput = userID, input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ScheduleItem{ID: "item-1", UserID: userID, Day: input.Day, Title: input.Title}, nil
}

func (f *scheduleServiceFake) UpdateItem(_ context.Context, userID primitive.ObjectID, itemID string, input service.ScheduleItemInput) (*domain.ScheduleItem, error) {
	f.lastUserID, f.lastItemID, f.lastInput = userID, itemID, input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ScheduleItem{ID: itemID, UserID: userID, Title: input.Title}, nil
}

func (f *scheduleServiceFake) DeleteItem(_ context.Context, userID primitive.ObjectID, itemID string) error {
	f.lastUserID, f.lastItemID = userID, itemID
	return f.err
}

func (f *scheduleServiceFake) ExportWeek(_ context.Context, userID primitive.ObjectID, date time.Time) (*service.WeekExport, error) {
	f.lastUserID, f.lastDate = userID, date
	if f.err != nil {
		return nil, f.err
	}
	return &service.WeekExport{Key: "exports/x.ics", URL: "https://storage.test/exports/x.ics"}, nil
}

type generatorServiceFake struct {
	lastRequest service.GenerateRequest
	lastDate    time.Time
	lastID      string
	lastPrefs   domain.WorkoutPreferences
	templates   []domain.GeneratedScheduleTemplate
	err         error
}

func (f *generatorServiceFake) GenerateTemplates(_ context.Context, _ primitive.ObjectID, req service.GenerateRequest) ([]domain.GeneratedScheduleTemplate, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *generatorServiceFake) SaveTemplate(_ context.Context, userID primitive.ObjectID, tpl domain.GeneratedScheduleTemplate) (*domain.GeneratedScheduleTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	tpl.UserID = userID
	return &tpl, nil
}

func (f *generatorServiceFake) ListTemplates(_ context.Context, _ primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *generatorServiceFake) ApplyTemplate(_ context.Context, _ primitive.ObjectID, templateID string, date time.Time) ([]domain.ScheduleItem, error) {
	f.lastID, f.lastDate = templateID, date
	if f.err != nil {
		return nil, f.err
	}
	return []domain.ScheduleItem{{ID: "applied-1"}}, nil
}

func (f *generatorServiceFake) UpdatePreferences(_ context.Context, _ primitive.ObjectID, prefs domain.WorkoutPreferences) (*domain.WorkoutPreferences, error) {
	f.lastPrefs = prefs
	if f.err != nil {
		return nil, f.err
	}
	return &prefs, nil
}
