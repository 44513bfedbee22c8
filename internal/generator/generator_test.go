package generator_test

import (
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func template(id, category string, duration int, equipment ...string) domain.WorkoutTemplate {
	return domain.WorkoutTemplate{
		ID:                id,
		Name:              "Workout " + id,
		Category:          category,
		Difficulty:        "intermediate",
		EstimatedDuration: duration,
		Exercises: []domain.TemplateExercise{
			{Name: "Exercise " + id, TargetSets: 3, TargetReps: "10", Muscles: []string{"quads"}, Equipment: equipment},
		},
	}
}

func newTestGenerator() *generator.Generator {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return generator.New(
		generator.WithSeed(42),
		generator.WithClock(func() time.Time { return now }),
		generator.WithIDFunc(func() string { n++; return fmt.Sprintf("tmpl-%d", n) }),
	)
}

func TestGenerate_DayCount(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("a", "strength", 60, "dumbbell"),
		template("b", "strength", 45),
		template("c", "mobility", 30),
	}
	criteria := domain.GenerationCriteria{DaysPerWeek: 4, PreferredDays: []int{1, 3, 5, 0}}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)

	tmpl := got[0]
	require.Len(t, tmpl.Items, 4)
	var itemDays []int
	for _, item := range tmpl.Items {
		itemDays = append(itemDays, item.Day)
		assert.True(t, item.IsRecurring)
		assert.Equal(t, domain.RepeatWeekly, item.RepeatPattern)
		assert.Equal(t, []int{item.Day}, item.RepeatDaysOfWeek)
		assert.Equal(t, 1, item.RepeatInterval)
		assert.Equal(t, "18:00", item.StartTime)
		assert.True(t, item.IsFromGenerator)
		assert.NotEmpty(t, item.GeneratorData["exercises"])
	}
	assert.ElementsMatch(t, []int{0, 1, 3, 5}, itemDays)
	assert.Equal(t, "tmpl-1", tmpl.ID)
	assert.Equal(t, generator.SourceGenerator, tmpl.Metadata.Source)
	assert.Contains(t, tmpl.Name, "4-Day")
	assert.Contains(t, tmpl.Name, "#1")
}

func TestGenerate_EndTimeFromDuration(t *testing.T) {
	pool := []domain.WorkoutTemplate{template("late", "strength", 90)}
	criteria := domain.GenerationCriteria{DaysPerWeek: 1, PreferredDays: []int{2}, PreferredStartTime: "23:15"}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, "23:15", got[0].Items[0].StartTime)
	assert.Equal(t, "00:45", got[0].Items[0].EndTime)
}

func TestGenerate_EquipmentFallsBackToUnfilteredPool(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("a", "strength", 60, "Barbell"),
		template("b", "strength", 60, "barbell"),
	}
	criteria := domain.GenerationCriteria{DaysPerWeek: 3, AllowedEquipment: []string{"bodyweight"}}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Items, 3)
	assert.Equal(t, []string{"barbell"}, got[0].Metadata.Equipment)
}

func TestGenerate_EquipmentFilterApplies(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("barbell", "strength", 60, "barbell"),
		template("bw", "strength", 30, "Bodyweight"),
	}
	criteria := domain.GenerationCriteria{DaysPerWeek: 3, AllowedEquipment: []string{"bodyweight"}, AllowBackToBack: true}

	got := newTestGenerator().Generate(pool, criteria, 2, nil)
	require.Len(t, got, 2)
	for _, tmpl := range got {
		for _, item := range tmpl.Items {
			assert.Equal(t, "Workout bw", item.Title)
		}
	}
}

func TestGenerate_NoBackToBackRepeats(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("a", "strength", 60),
		template("b", "strength", 60),
	}
	criteria := domain.GenerationCriteria{DaysPerWeek: 7}

	for seed := uint64(0); seed < 20; seed++ {
		g := generator.New(generator.WithSeed(seed))
		got := g.Generate(pool, criteria, 6, nil)
		require.Len(t, got, 6)
		for _, tmpl := range got {
			require.Len(t, tmpl.Items, 7)
			for i := 1; i < len(tmpl.Items); i++ {
				prev, cur := tmpl.Items[i-1], tmpl.Items[i]
				require.Equal(t, prev.Day+1, cur.Day)
				require.NotEqual(t, prev.GeneratorData["templateId"], cur.GeneratorData["templateId"],
					"seed %d: repeat on days %d and %d", seed, prev.Day, cur.Day)
			}
		}
	}
}

func TestGenerate_SingleCandidateRepeats(t *testing.T) {
	pool := []domain.WorkoutTemplate{template("only", "strength", 60)}
	criteria := domain.GenerationCriteria{DaysPerWeek: 3, PreferredDays: []int{1, 2, 3}}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 3)
	for _, item := range got[0].Items {
		assert.Equal(t, "Workout only", item.Title)
	}
	assert.Contains(t, got[0].Metadata.Insights, "Some workouts repeat on consecutive days")
}

func TestGenerate_CardioQuota(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("s1", "strength", 60),
		template("s2", "strength", 60),
		template("s3", "strength", 60),
		template("run", "cardio", 30),
		template("hiit", "HIIT", 20),
	}
	criteria := domain.GenerationCriteria{DaysPerWeek: 6, IncludeCardio: true, AllowBackToBack: true}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	cardio := 0
	for _, item := range got[0].Items {
		if item.Category == "cardio" || item.Category == "HIIT" {
			cardio++
		}
	}
	assert.GreaterOrEqual(t, cardio, 2)
	assert.Contains(t, got[0].Metadata.Tags, "cardio")
}

func TestGenerate_UsesBackupPool(t *testing.T) {
	backup := []domain.WorkoutTemplate{template("b1", "yoga", 40), template("b2", "yoga", 40)}
	criteria := domain.GenerationCriteria{DaysPerWeek: 2}

	got := newTestGenerator().Generate(nil, criteria, 1, backup)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Items, 2)
}

func TestGenerate_EmptyPools(t *testing.T) {
	assert.Empty(t, newTestGenerator().Generate(nil, domain.GenerationCriteria{DaysPerWeek: 3}, 3, nil))
}

func TestGenerate_ClampsCountAndDays(t *testing.T) {
	pool := []domain.WorkoutTemplate{template("a", "strength", 60), template("b", "strength", 60)}

	got := newTestGenerator().Generate(pool, domain.GenerationCriteria{DaysPerWeek: 12}, 20, nil)
	require.Len(t, got, generator.MaxTemplates)
	for i, tmpl := range got {
		assert.Len(t, tmpl.Items, 7)
		assert.Contains(t, tmpl.Name, fmt.Sprintf("#%d", i+1))
	}

	got = newTestGenerator().Generate(pool, domain.GenerationCriteria{DaysPerWeek: 0}, 0, nil)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, 1, got[0].Items[0].Day) // Monday is first in the default order
}

func TestGenerate_NameAndMetadata(t *testing.T) {
	pool := []domain.WorkoutTemplate{template("a", "strength", 60), template("b", "strength", 30)}
	criteria := domain.GenerationCriteria{
		DaysPerWeek:         2,
		PreferredDays:       []int{1, 4},
		Difficulty:          "beginner",
		Focus:               []string{"Upper Body", "core"},
		RepeatIntervalWeeks: 2,
	}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	tmpl := got[0]
	assert.Equal(t, "Beginner 2-Day Upper Body & Core Plan #1", tmpl.Name)
	assert.Equal(t, "2 workouts per week on Mon, Thu, focusing on upper body & core. Repeats every 2 weeks.", tmpl.Description)
	assert.Equal(t, []string{"beginner", "upper body", "core"}, tmpl.Metadata.Tags)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), tmpl.Metadata.GeneratedAt)
	assert.Equal(t, 2, tmpl.Metadata.Criteria.RepeatIntervalWeeks)
	assert.Contains(t, tmpl.Metadata.Insights, "Rest days: Sun, Tue, Wed, Fri, Sat")
	assert.Contains(t, tmpl.Metadata.Insights, "No equipment required")
	for _, item := range tmpl.Items {
		assert.Equal(t, 2, item.RepeatInterval)
	}
}

func TestGenerate_NameWithAccentedCriteria(t *testing.T) {
	pool := []domain.WorkoutTemplate{template("a", "abs", 30)}
	criteria := domain.GenerationCriteria{DaysPerWeek: 1, Difficulty: "élite", Focus: []string{"ábs"}}

	got := newTestGenerator().Generate(pool, criteria, 1, nil)
	require.Len(t, got, 1)
	assert.True(t, utf8.ValidString(got[0].Name))
	assert.Equal(t, "Élite 1-Day Ábs Plan #1", got[0].Name)
}

func TestGenerate_CardioTakesEarliestWeekday(t *testing.T) {
	pool := []domain.WorkoutTemplate{
		template("s1", "strength", 60),
		template("s2", "strength", 60),
		template("run", "cardio", 30),
	}
	// preferred order puts Friday first, cardio still lands on Monday
	criteria := domain.GenerationCriteria{DaysPerWeek: 3, PreferredDays: []int{5, 1, 3}, IncludeCardio: true}

	for seed := uint64(1); seed <= 5; seed++ {
		gen := generator.New(generator.WithSeed(seed))
		got := gen.Generate(pool, criteria, 1, nil)
		require.Len(t, got, 1)

		byDay := map[int]domain.ScheduleItem{}
		for _, item := range got[0].Items {
			byDay[item.Day] = item
		}
		require.Len(t, byDay, 3)
		assert.Equal(t, "cardio", byDay[1].Category, "seed %d", seed)
		assert.Equal(t, 1, got[0].Items[0].Day, "items follow calendar order")
	}
}
