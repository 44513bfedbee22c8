package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/metrics"
	"alcyxob/fitness-schedule/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scheduleFixture struct {
	svc       service.ScheduleService
	schedules *scheduleRepoMock
	items     *itemRepoMock
	storage   *fileStorageMock
	metrics   *metrics.Manager
}

func newScheduleFixture() *scheduleFixture {
	schedules := newScheduleRepoMock()
	items := newItemRepoMock(schedules)
	storage := newFileStorageMock()
	m := metrics.NewTestManager()
	return &scheduleFixture{
		svc:       service.NewScheduleService(schedules, items, storage, m),
		schedules: schedules,
		items:     items,
		storage:   storage,
		metrics:   m,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func legDay(weekOf time.Time) service.ScheduleItemInput {
	return service.ScheduleItemInput{
		WeekOf:         weekOf,
		Day:            1,
		StartTime:      "07:00",
		EndTime:        "08:00",
		Type:           "workout",
		Title:          "Leg Day",
		IsRecurring:    true,
		RepeatPattern:  domain.RepeatWeekly,
		RepeatInterval: 1,
	}
}

func TestScheduleService_RecurringItemAppearsInLaterWeeks(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	userID := primitive.NewObjectID()

	created, err := f.svc.CreateItem(ctx, userID, legDay(date(2024, 1, 10)))
	require.NoError(t, err)
	require.NotNil(t, created.Schedule)
	assert.Equal(t, date(2024, 1, 7), created.Schedule.WeekStart)

	// origin week: only the real item, no duplicate
	week, err := f.svc.GetWeek(ctx, userID, date(2024, 1, 9))
	require.NoError(t, err)
	require.Len(t, week.Items, 1)
	assert.False(t, week.Items[0].IsVirtual)
	assert.Equal(t, created.ID, week.Items[0].OriginID)

	week, err = f.svc.GetWeek(ctx, userID, date(2024, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 14), week.WeekStart)
	require.Len(t, week.Items, 1)
	v := week.Items[0]
	assert.True(t, v.IsVirtual)
	assert.Equal(t, created.ID+"-2024-01-14-1", v.ID)
	assert.Equal(t, created.ID, v.OriginID)
	assert.Equal(t, "Leg Day", v.Title)

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CounterVirtualOccurrences), 0)

	// weeks before the origin stay empty
	week, err = f.svc.GetWeek(ctx, userID, date(2023, 12, 31))
	require.NoError(t, err)
	assert.Empty(t, week.Items)
}

func TestScheduleService_CreateItem_Validation(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	userID := primitive.NewObjectID()

	tests := []struct {
		name   string
		mutate func(in *service.ScheduleItemInput)
	}{
		{"missing date", func(in *service.ScheduleItemInput) { in.WeekOf = time.Time{} }},
		{"missing title", func(in *service.ScheduleItemInput) { in.Title = "" }},
		{"day out of range", func(in *service.ScheduleItemInput) { in.Day = 7 }},
		{"bad start", func(in *service.ScheduleItemInput) { in.StartTime = "7:00" }},
		{"bad end", func(in *service.ScheduleItemInput) { in.EndTime = "25:00" }},
		{"unknown pattern", func(in *service.ScheduleItemInput) { in.RepeatPattern = "monthly" }},
		{"negative interval", func(in *service.ScheduleItemInput) { in.RepeatInterval = -2 }},
		{"bad weekday", func(in *service.ScheduleItemInput) { in.RepeatDaysOfWeek = []int{1, 9} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := legDay(date(2024, 1, 10))
			tt.mutate(&in)
			_, err := f.svc.CreateItem(ctx, userID, in)
			assert.ErrorIs(t, err, service.ErrValidationFailed)
		})
	}
	assert.Empty(t, f.items.items)
}

func TestScheduleService_CreateItem_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	duration := 90

	in := legDay(date(2024, 1, 10))
	in.EndTime = ""
	in.Duration = &duration
	in.RepeatPattern = ""
	in.RepeatInterval = 0

	item, err := f.svc.CreateItem(ctx, primitive.NewObjectID(), in)
	require.NoError(t, err)
	assert.Equal(t, "08:30", item.EndTime)
	assert.Equal(t, domain.RepeatWeekly, item.RepeatPattern)
	assert.Equal(t, 1, item.RepeatInterval)
	assert.Equal(t, "weekly", item.RecurrenceRule["pattern"])
}

func TestScheduleService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	created, err := f.svc.CreateItem(ctx, owner, legDay(date(2024, 1, 10)))
	require.NoError(t, err)

	update := legDay(time.Time{})
	update.Title = "Heavy Leg Day"
	update.IsRecurring = false

	_, err = f.svc.UpdateItem(ctx, stranger, created.ID, update)
	assert.ErrorIs(t, err, service.ErrItemAccessDenied)

	updated, err := f.svc.UpdateItem(ctx, owner, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Heavy Leg Day", updated.Title)
	assert.False(t, updated.IsRecurring)
	assert.Empty(t, updated.RepeatPattern)

	// no longer recurring, so later weeks are empty
	week, err := f.svc.GetWeek(ctx, owner, date(2024, 1, 21))
	require.NoError(t, err)
	assert.Empty(t, week.Items)

	assert.ErrorIs(t, f.svc.DeleteItem(ctx, stranger, created.ID), service.ErrItemAccessDenied)
	require.NoError(t, f.svc.DeleteItem(ctx, owner, created.ID))
	assert.ErrorIs(t, f.svc.DeleteItem(ctx, owner, created.ID), service.ErrItemNotFound)

	_, err = f.svc.UpdateItem(ctx, owner, created.ID+"-2024-01-14-1", update)
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestScheduleService_ExportWeek(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	userID := primitive.NewObjectID()

	_, err := f.svc.CreateItem(ctx, userID, legDay(date(2024, 1, 10)))
	require.NoError(t, err)

	export, err := f.svc.ExportWeek(ctx, userID, date(2024, 1, 16))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(export.Key, "exports/"+userID.Hex()+"/2024-01-14-"))
	assert.True(t, strings.HasSuffix(export.Key, ".ics"))
	assert.Contains(t, export.URL, export.Key)

	body := string(f.storage.objects[export.Key])
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Leg Day")
	assert.Contains(t, body, "DTSTART:20240115T070000")
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CounterCalendarExports), 0)
}

func TestScheduleService_ExportWeek_PresignFailureRemovesObject(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture()
	f.storage.presignErr = errors.New("presign down")

	_, err := f.svc.ExportWeek(ctx, primitive.NewObjectID(), date(2024, 1, 16))
	assert.ErrorIs(t, err, service.ErrExportFailed)
	assert.Empty(t, f.storage.objects)
}
