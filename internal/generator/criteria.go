package generator

import (
	"fmt"
	"strconv"
	"strings"

	"alcyxob/fitness-schedule/internal/domain"
)

const (
	DefaultStartTime = "18:00"
	MaxTemplates     = 6
)

// defaultDayOrder is Mon, Wed, Fri, Sun, Tue, Thu, Sat.
var defaultDayOrder = []int{1, 3, 5, 0, 2, 4, 6}

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NormalizeCriteria clamps and defaults the numeric and time fields of c.
func NormalizeCriteria(c domain.GenerationCriteria) domain.GenerationCriteria {
	c.DaysPerWeek = clamp(c.DaysPerWeek, 1, 7)
	if c.RepeatIntervalWeeks < 1 {
		c.RepeatIntervalWeeks = 1
	}
	if _, err := ParseClock(c.PreferredStartTime); err != nil {
		c.PreferredStartTime = DefaultStartTime
	}
	c.AllowedEquipment = normalizeAll(c.AllowedEquipment)
	c.PreferredDays = DaySequence(c)
	return c
}

// DaySequence returns the weekdays to fill: the valid, distinct preferred days
// first, padded from the default priority order, truncated to DaysPerWeek.
func DaySequence(c domain.GenerationCriteria) []int {
	n := clamp(c.DaysPerWeek, 1, 7)
	var used [7]bool
	seq := make([]int, 0, n)
	add := func(d int) {
		if len(seq) < n && d >= 0 && d <= 6 && !used[d] {
			used[d] = true
			seq = append(seq, d)
		}
	}
	for _, d := range c.PreferredDays {
		add(d)
	}
	for _, d := range defaultDayOrder {
		add(d)
	}
	return seq
}

// CardioQuota is the number of cardio sessions to aim for over n scheduled days.
func CardioQuota(c domain.GenerationCriteria, n int) int {
	if !c.IncludeCardio {
		return 0
	}
	perWeek := clamp(c.DaysPerWeek, 1, 7)
	quota := max(1, (perWeek+1)/3) // round(perWeek/3)
	return min(n, quota)
}

// AddMinutes adds minutes to an "HH:MM" clock, wrapping around midnight.
func AddMinutes(clock string, minutes int) string {
	start, err := ParseClock(clock)
	if err != nil {
		start, _ = ParseClock(DefaultStartTime)
	}
	total := ((start+minutes)%(24*60) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseClock returns the minutes since midnight of a zero-padded "HH:MM" clock.
func ParseClock(clock string) (int, error) {
	h, m, ok := strings.Cut(clock, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hours*60 + mins, nil
}

// ValidClock reports whether clock is a zero-padded "HH:MM" time.
func ValidClock(clock string) bool {
	_, err := ParseClock(clock)
	return err == nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
