package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepoMock struct {
	mutex sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *userRepoMock) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *userRepoMock) UpdatePreferences(_ context.Context, id primitive.ObjectID, prefs domain.WorkoutPreferences) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Preferences = &prefs
	return nil
}

type scheduleRepoMock struct {
	mutex     sync.Mutex
	schedules map[string]*domain.Schedule
}

func newScheduleRepoMock() *scheduleRepoMock {
	return &scheduleRepoMock{schedules: map[string]*domain.Schedule{}}
}

func (r *scheduleRepoMock) GetOrCreate(_ context.Context, userID primitive.ObjectID, weekStart time.Time, timezone string) (*domain.Schedule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, s := range r.schedules {
		if s.UserID == userID && s.WeekStart.Equal(weekStart) {
			found := *s
			return &found, nil
		}
	}
	s := &domain.Schedule{ID: uuid.NewString(), UserID: userID, WeekStart: weekStart, Timezone: timezone}
	r.schedules[s.ID] = s
	created := *s
	return &created, nil
}

func (r *scheduleRepoMock) GetByUserAndWeek(_ context.Context, userID primitive.ObjectID, weekStart time.Time) (*domain.Schedule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, s := range r.schedules {
		if s.UserID == userID && s.WeekStart.Equal(weekStart) {
			found := *s
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *scheduleRepoMock) GetByIDs(_ context.Context, ids []string) ([]domain.Schedule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []domain.Schedule
	for _, id := range ids {
		if s, ok := r.schedules[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type itemRepoMock struct {
	mutex     sync.Mutex
	items     map[string]domain.ScheduleItem
	schedules *scheduleRepoMock
	// failOnInsert makes the n-th insert of the next CreateMany fail, 0 disables it.
	failOnInsert int
}

func newItemRepoMock(schedules *scheduleRepoMock) *itemRepoMock {
	return &itemRepoMock{items: map[string]domain.ScheduleItem{}, schedules: schedules}
}

func (r *itemRepoMock) Create(_ context.Context, item *domain.ScheduleItem) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	item.ID = uuid.NewString()
	stored := *item
	stored.Schedule = nil
	r.items[item.ID] = stored
	return item.ID, nil
}

func (r *itemRepoMock) CreateMany(_ context.Context, items []domain.ScheduleItem) ([]domain.ScheduleItem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	stored := make([]domain.ScheduleItem, 0, len(items))
	for i, item := range items {
		if r.failOnInsert > 0 && i+1 == r.failOnInsert {
			r.failOnInsert = 0
			for _, done := range stored {
				delete(r.items, done.ID)
			}
			return nil, errors.New("write failed")
		}
		item.ID = uuid.NewString()
		item.Schedule = nil
		r.items[item.ID] = item
		stored = append(stored, item)
	}
	return stored, nil
}

func (r *itemRepoMock) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.items)
}

func (r *itemRepoMock) GetByID(_ context.Context, id string) (*domain.ScheduleItem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r *itemRepoMock) Update(_ context.Context, item *domain.ScheduleItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	existing, ok := r.items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return repository.ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *itemRepoMock) Delete(_ context.Context, id string, userID primitive.ObjectID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	existing, ok := r.items[id]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *itemRepoMock) ListBySchedule(_ context.Context, scheduleID string) ([]domain.ScheduleItem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []domain.ScheduleItem
	for _, item := range r.items {
		if item.ScheduleID == scheduleID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *itemRepoMock) ListRecurringByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ScheduleItem, error) {
	r.mutex.Lock()
	var out []domain.ScheduleItem
	for _, item := range r.items {
		if item.UserID == userID && item.IsRecurring {
			out = append(out, item)
		}
	}
	r.mutex.Unlock()

	for i := range out {
		schedules, _ := r.schedules.GetByIDs(ctx, []string{out[i].ScheduleID})
		if len(schedules) == 1 {
			out[i].Schedule = &schedules[0]
		}
	}
	return out, nil
}

type workoutRepoMock struct {
	mutex     sync.Mutex
	templates []domain.WorkoutTemplate
	usage     map[string]int
	err       error
}

func newWorkoutRepoMock(templates ...domain.WorkoutTemplate) *workoutRepoMock {
	return &workoutRepoMock{templates: templates, usage: map[string]int{}}
}

func (r *workoutRepoMock) ListCandidates(_ context.Context, _ primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.templates, nil
}

func (r *workoutRepoMock) IncrementUsage(_ context.Context, ids []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, id := range ids {
		r.usage[id]++
	}
	return nil
}

type scheduleTemplateRepoMock struct {
	mutex     sync.Mutex
	templates map[string]domain.GeneratedScheduleTemplate
}

func newScheduleTemplateRepoMock() *scheduleTemplateRepoMock {
	return &scheduleTemplateRepoMock{templates: map[string]domain.GeneratedScheduleTemplate{}}
}

func (r *scheduleTemplateRepoMock) Create(_ context.Context, tpl *domain.GeneratedScheduleTemplate) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if _, ok := r.templates[tpl.ID]; ok {
		return "", repository.ErrDuplicate
	}
	r.templates[tpl.ID] = *tpl
	return tpl.ID, nil
}

func (r *scheduleTemplateRepoMock) GetByID(_ context.Context, id string) (*domain.GeneratedScheduleTemplate, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tpl, nil
}

func (r *scheduleTemplateRepoMock) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.GeneratedScheduleTemplate, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []domain.GeneratedScheduleTemplate
	for _, tpl := range r.templates {
		if tpl.UserID == userID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

type fileStorageMock struct {
	mutex      sync.Mutex
	objects    map[string][]byte
	presignErr error
	putErr     error
}

func newFileStorageMock() *fileStorageMock {
	return &fileStorageMock{objects: map[string][]byte{}}
}

func (s *fileStorageMock) PutObject(_ context.Context, key string, _ string, body []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.objects[key] = body
	return nil
}

func (s *fileStorageMock) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://storage.test/" + key + "?signature=abc", nil
}

func (s *fileStorageMock) DeleteObject(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(s.objects, key)
	return nil
}
