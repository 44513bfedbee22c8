package generator

import (
	"fmt"
	"slices"
	"strings"

	"alcyxob/fitness-schedule/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultDurationMinutes = 45
	workoutItemType        = "workout"
)

func (g *Generator) buildTemplate(seq int, assignments []assignment, c domain.GenerationCriteria) domain.GeneratedScheduleTemplate {
	items := make([]domain.ScheduleItem, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, scheduleItem(a, c))
	}

	categories := planCategories(assignments, c)
	difficulty := titleCase(c.Difficulty)
	if difficulty == "" {
		difficulty = "Mixed"
	}
	categoryLabel := "Full Body"
	if len(categories) > 0 {
		labels := make([]string, len(categories))
		for i, cat := range categories {
			labels[i] = titleCase(cat)
		}
		categoryLabel = strings.Join(labels, " & ")
	}

	return domain.GeneratedScheduleTemplate{
		ID:          g.newID(),
		Name:        fmt.Sprintf("%s %d-Day %s Plan #%d", difficulty, len(items), categoryLabel, seq),
		Description: describe(assignments, categoryLabel, c.RepeatIntervalWeeks),
		Items:       items,
		Metadata: domain.GeneratedTemplateMetadata{
			Source:      SourceGenerator,
			GeneratedAt: g.now().UTC(),
			Criteria:    c,
			Tags:        tags(assignments, categories, c),
			Insights:    insights(assignments),
			Equipment:   equipment(assignments),
		},
	}
}

func scheduleItem(a assignment, c domain.GenerationCriteria) domain.ScheduleItem {
	t := a.template
	duration := t.EstimatedDuration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	return domain.ScheduleItem{
		Day:             a.day,
		StartTime:       c.PreferredStartTime,
		EndTime:         AddMinutes(c.PreferredStartTime, duration),
		Type:            workoutItemType,
		Title:           t.Name,
		Description:     t.Description,
		Category:        t.Category,
		Difficulty:      t.Difficulty,
		Duration:        &duration,
		IsFromGenerator: true,
		GeneratorData:   snapshot(t),
		RecurrenceRule: map[string]any{
			"pattern":    string(domain.RepeatWeekly),
			"interval":   c.RepeatIntervalWeeks,
			"daysOfWeek": []any{a.day},
		},
		IsRecurring:      true,
		RepeatPattern:    domain.RepeatWeekly,
		RepeatInterval:   c.RepeatIntervalWeeks,
		RepeatDaysOfWeek: []int{a.day},
	}
}

// snapshot denormalizes a template so the schedule can render it without a lookup.
func snapshot(t domain.WorkoutTemplate) map[string]any {
	exercises := make([]any, 0, len(t.Exercises))
	for _, ex := range t.Exercises {
		exercises = append(exercises, map[string]any{
			"name":          ex.Name,
			"targetSets":    ex.TargetSets,
			"targetReps":    ex.TargetReps,
			"restSeconds":   ex.RestSeconds,
			"instructions":  ex.Instructions,
			"targetMuscles": toAny(ex.Muscles),
			"equipment":     toAny(ex.Equipment),
		})
	}
	return map[string]any{
		"templateId":   t.ID,
		"templateName": t.Name,
		"exercises":    exercises,
	}
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// planCategories prefers the requested focus, else the categories actually assigned.
func planCategories(assignments []assignment, c domain.GenerationCriteria) []string {
	source := c.Focus
	if len(source) == 0 {
		for _, a := range assignments {
			source = append(source, a.template.Category)
		}
	}
	var out []string
	for _, cat := range source {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if cat != "" && !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	return out
}

func describe(assignments []assignment, categoryLabel string, interval int) string {
	cadence := "every week"
	if interval > 1 {
		cadence = fmt.Sprintf("every %d weeks", interval)
	}
	return fmt.Sprintf("%d workouts per week on %s, focusing on %s. Repeats %s.",
		len(assignments), strings.Join(dayLabels(assignments), ", "), strings.ToLower(categoryLabel), cadence)
}

func tags(assignments []assignment, categories []string, c domain.GenerationCriteria) []string {
	var out []string
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	add(c.Difficulty)
	for _, cat := range categories {
		add(cat)
	}
	for _, a := range assignments {
		if a.cardio {
			add("cardio")
			break
		}
	}
	return out
}

func insights(assignments []assignment) []string {
	cardio, minutes, repeats := 0, 0, 0
	var used [7]bool
	for i, a := range assignments {
		used[a.day] = true
		if a.cardio {
			cardio++
		}
		d := a.template.EstimatedDuration
		if d <= 0 {
			d = defaultDurationMinutes
		}
		minutes += d
		if i > 0 && assignments[i-1].template.ID == a.template.ID && assignments[i-1].day+1 == a.day {
			repeats++
		}
	}

	out := []string{fmt.Sprintf("%d training days: %s", len(assignments), strings.Join(dayLabels(assignments), ", "))}
	if cardio > 0 {
		out = append(out, fmt.Sprintf("Includes %d cardio session(s)", cardio))
	}
	var rest []string
	for d, ok := range used {
		if !ok {
			rest = append(rest, dayNames[d])
		}
	}
	if len(rest) > 0 {
		out = append(out, "Rest days: "+strings.Join(rest, ", "))
	} else {
		out = append(out, "No rest days scheduled")
	}
	if eq := equipment(assignments); len(eq) > 0 {
		out = append(out, "Equipment needed: "+strings.Join(eq, ", "))
	} else {
		out = append(out, "No equipment required")
	}
	out = append(out, fmt.Sprintf("Total weekly training time: about %d minutes", minutes))
	if repeats > 0 {
		out = append(out, "Some workouts repeat on consecutive days")
	}
	return out
}

func equipment(assignments []assignment) []string {
	out := []string{}
	for _, a := range assignments {
		for _, eq := range RequiredEquipment(a.template) {
			if !slices.Contains(out, eq) {
				out = append(out, eq)
			}
		}
	}
	slices.Sort(out)
	return out
}

func dayLabels(assignments []assignment) []string {
	out := make([]string, len(assignments))
	for i, a := range assignments {
		out[i] = dayNames[a.day]
	}
	return out
}

// titleCase collapses whitespace and capitalizes every word. A Caser keeps
// state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}
