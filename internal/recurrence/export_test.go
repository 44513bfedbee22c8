package recurrence

import (
	"time"

	"alcyxob/fitness-schedule/internal/domain"
)

// SetExpandFunc replaces the expansion used by MergeWeek and returns a restore func.
func SetExpandFunc(f func(domain.ScheduleItem, time.Time) []domain.ScheduleItem) func() {
	prev := expand
	expand = f
	return func() { expand = prev }
}
