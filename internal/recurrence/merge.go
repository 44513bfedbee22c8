package recurrence

import (
	"cmp"
	"slices"
	"time"

	"alcyxob/fitness-schedule/internal/domain"

	"github.com/sirupsen/logrus"
)

// MergeWeek combines the stored items of a week with the virtual occurrences of
// every recurring source item. An occurrence is dropped when an item with the same
// signature is already present; stored items are seeded first so they always win.
// The result is ordered by day, then by start time.
func MergeWeek(realItems, recurringSourceItems []domain.ScheduleItem, targetWeekStart time.Time) []domain.ScheduleItem {
	seen := make(map[string]struct{}, len(realItems))
	merged := make([]domain.ScheduleItem, 0, len(realItems))

	for _, item := range realItems {
		if item.OriginID == "" {
			item.OriginID = item.ID
		}
		seen[Signature(item)] = struct{}{}
		merged = append(merged, item)
	}

	for _, source := range recurringSourceItems {
		if !source.IsRecurring {
			continue
		}
		for _, occ := range safeExpand(source, targetWeekStart) {
			sig := Signature(occ)
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			merged = append(merged, occ)
		}
	}

	SortItems(merged)
	return merged
}

// SortItems orders items by day and then by their zero-padded "HH:MM" start time.
func SortItems(items []domain.ScheduleItem) {
	slices.SortStableFunc(items, func(a, b domain.ScheduleItem) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
}

// expand is swapped in tests.
var expand = Expand

// safeExpand isolates one bad record from the rest of the week.
func safeExpand(item domain.ScheduleItem, targetWeekStart time.Time) (occurrences []domain.ScheduleItem) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"itemId":    item.ID,
				"weekStart": WeekKey(targetWeekStart),
			}).Warnf("skipping recurring item, expansion failed: %v", r)
			occurrences = nil
		}
	}()
	return expand(item, targetWeekStart)
}
