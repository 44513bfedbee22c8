// Package recurrence expands recurring schedule items into the occurrences of a
// given week and merges them with the items stored for that week.
package recurrence

import (
	"fmt"
	"time"

	"alcyxob/fitness-schedule/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expand computes the virtual occurrences of a recurring item inside the week
// starting at targetWeekStart. Items that are not recurring, or that carry no
// schedule (and therefore no anchor week), produce nothing.
func Expand(item domain.ScheduleItem, targetWeekStart time.Time) []domain.ScheduleItem {
	if !item.IsRecurring || item.Schedule == nil {
		return nil
	}

	originWeek := StartOfDay(item.Schedule.WeekStart)
	target := StartOfDay(targetWeekStart)
	if target.Before(originWeek) {
		return nil
	}
	originDate := originWeek.AddDate(0, 0, item.Day)
	interval := normalizeInterval(item.RepeatInterval)

	var days []int
	switch normalizePattern(item.RepeatPattern) {
	case domain.RepeatDaily:
		for d := 0; d < 7; d++ {
			diff := DaysBetween(target.AddDate(0, 0, d), originDate)
			if diff >= 0 && diff%interval == 0 {
				days = append(days, d)
			}
		}
	case domain.RepeatYearly:
		for d := 0; d < 7; d++ {
			date := target.AddDate(0, 0, d)
			years := date.Year() - originDate.Year()
			if years < 0 || years%interval != 0 {
				continue
			}
			if date.Month() == originDate.Month() && date.Day() == originDate.Day() {
				days = append(days, d)
			}
		}
	default:
		diffWeeks := DaysBetween(target, originWeek) / 7
		if diffWeeks < 0 || diffWeeks%interval != 0 {
			return nil
		}
		days = weekdays(item)
	}

	var endsOn time.Time
	if item.RepeatEndsOn != nil {
		endsOn = StartOfDay(*item.RepeatEndsOn)
	}

	occurrences := make([]domain.ScheduleItem, 0, len(days))
	for _, d := range days {
		date := target.AddDate(0, 0, d)
		// Never before the first calendar occurrence of the origin item.
		if date.Before(originDate) {
			continue
		}
		if item.RepeatEndsOn != nil && date.After(endsOn) {
			continue
		}
		occurrences = append(occurrences, virtualOccurrence(item, target, d))
	}
	return occurrences
}

func normalizeInterval(interval int) int {
	if interval <= 0 {
		return 1
	}
	return interval
}

// normalizePattern maps empty or unknown patterns to weekly.
func normalizePattern(p domain.RepeatPattern) domain.RepeatPattern {
	if p.Valid() {
		return p
	}
	return domain.RepeatWeekly
}

// weekdays returns the distinct valid repeat days, falling back to the item's own day.
func weekdays(item domain.ScheduleItem) []int {
	var seen [7]bool
	days := make([]int, 0, len(item.RepeatDaysOfWeek))
	for _, d := range item.RepeatDaysOfWeek {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	if len(days) == 0 && item.Day >= 0 && item.Day <= 6 {
		days = append(days, item.Day)
	}
	return days
}

// virtualOccurrence builds a fresh item from the source fields. Nested payloads
// are cloned so occurrences of the same source never share maps or slices.
func virtualOccurrence(src domain.ScheduleItem, weekStart time.Time, day int) domain.ScheduleItem {
	occ := domain.ScheduleItem{
		ID:               fmt.Sprintf("%s-%s-%d", src.ID, WeekKey(weekStart), day),
		OriginID:         src.ID,
		UserID:           src.UserID,
		ScheduleID:       src.ScheduleID,
		Day:              day,
		StartTime:        src.StartTime,
		EndTime:          src.EndTime,
		Type:             src.Type,
		Title:            src.Title,
		Description:      src.Description,
		Category:         src.Category,
		Difficulty:       src.Difficulty,
		Duration:         cloneInt(src.Duration),
		Calories:         cloneInt(src.Calories),
		IsFromGenerator:  src.IsFromGenerator,
		GeneratorData:    cloneMap(src.GeneratorData),
		RecurrenceRule:   cloneMap(src.RecurrenceRule),
		IsRecurring:      src.IsRecurring,
		RepeatPattern:    src.RepeatPattern,
		RepeatInterval:   src.RepeatInterval,
		RepeatDaysOfWeek: append([]int(nil), src.RepeatDaysOfWeek...),
		IsVirtual:        true,
		CreatedAt:        src.CreatedAt,
		UpdatedAt:        src.UpdatedAt,
	}
	if src.RepeatEndsOn != nil {
		endsOn := *src.RepeatEndsOn
		occ.RepeatEndsOn = &endsOn
	}
	return occ
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case primitive.M:
		return primitive.M(cloneMap(val))
	case primitive.A:
		return primitive.A(cloneValue([]any(val)).([]any))
	case primitive.D:
		out := make(primitive.D, len(val))
		for i, e := range val {
			out[i] = primitive.E{Key: e.Key, Value: cloneValue(e.Value)}
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
