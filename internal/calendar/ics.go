// Package calendar renders an expanded schedule week as an iCalendar document.
package calendar

import (
	"strings"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/generator"

	ics "github.com/arran4/golang-ical"
)

const (
	productID = "-//Fitness Schedule//Week Export//EN"
	// floating local time, no TZID and no Z suffix
	floatingLayout = "20060102T150405"
)

// RenderWeek builds a VCALENDAR with one VEVENT per item. Items with an
// unparsable start time are skipped. Times are written as floating local times.
func RenderWeek(weekStart time.Time, items []domain.ScheduleItem, now time.Time) string {
	cal := ics.NewCalendarFor("Fitness Schedule")
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	for _, item := range items {
		start, end, ok := eventBounds(weekStart, item)
		if !ok {
			continue
		}
		event := cal.AddEvent(item.ID)
		event.SetDtStampTime(now)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(floatingLayout))
		event.SetSummary(normalizeNewlines(item.Title))
		if item.Description != "" {
			event.SetDescription(normalizeNewlines(item.Description))
		}
		if item.Category != "" {
			event.AddCategory(item.Category)
		}
	}

	return cal.Serialize(ics.WithNewLineWindows)
}

// eventBounds places an item on its calendar day. An end time at or before the
// start time ends on the following day.
func eventBounds(weekStart time.Time, item domain.ScheduleItem) (time.Time, time.Time, bool) {
	startMin, err := generator.ParseClock(item.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := weekStart.Date()
	day := time.Date(y, m, d+item.Day, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(startMin) * time.Minute)

	endMin, err := generator.ParseClock(item.EndTime)
	if err != nil {
		if item.Duration != nil && *item.Duration > 0 {
			return start, start.Add(time.Duration(*item.Duration) * time.Minute), true
		}
		return start, start.Add(time.Hour), true
	}
	end := day.Add(time.Duration(endMin) * time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
