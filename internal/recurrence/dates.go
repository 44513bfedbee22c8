package recurrence

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-schedule/internal/domain"
)

const weekKeyLayout = "2006-01-02"

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// DaysBetween returns the number of calendar days from b to a (negative when a is before b).
// Both dates are compared by their calendar date, so a DST shift inside the range
// does not lose a day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ua.Sub(ub) / (24 * time.Hour))
}

// WeekKey formats a week start for use inside synthesized ids.
func WeekKey(weekStart time.Time) string {
	return StartOfDay(weekStart).Format(weekKeyLayout)
}

// Signature identifies items that would render identically in a week view.
func Signature(item domain.ScheduleItem) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%d", item.Title, item.StartTime, item.Day))
}
