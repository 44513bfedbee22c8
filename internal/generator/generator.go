// Package generator assigns workout templates to weekdays and packages the
// result as reusable schedule templates made of weekly recurring items.
package generator

import (
	"math/rand/v2"
	"slices"
	"time"

	"alcyxob/fitness-schedule/internal/domain"

	"github.com/google/uuid"
)

// SourceGenerator tags templates produced by this package.
const SourceGenerator = "generator"

// Generator produces schedule templates. The zero value is not usable; use New.
type Generator struct {
	newRand func() *rand.Rand
	now     func() time.Time
	newID   func() string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSeed makes every Generate call shuffle with the same deterministic sequence.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc overrides template id generation.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

// New creates a Generator. It is safe for concurrent use: every call to Generate
// gets its own random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		newRand: func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = New()

// Generate runs the default generator.
func Generate(pool []domain.WorkoutTemplate, criteria domain.GenerationCriteria, count int, backupPool []domain.WorkoutTemplate) []domain.GeneratedScheduleTemplate {
	return defaultGenerator.Generate(pool, criteria, count, backupPool)
}

type assignment struct {
	day      int
	template domain.WorkoutTemplate
	cardio   bool
}

// Generate builds count (clamped to 1..6) independent schedule templates from the
// candidate pools. It returns nil when both pools are empty.
func (g *Generator) Generate(pool []domain.WorkoutTemplate, criteria domain.GenerationCriteria, count int, backupPool []domain.WorkoutTemplate) []domain.GeneratedScheduleTemplate {
	if len(pool) == 0 && len(backupPool) == 0 {
		return nil
	}

	c := NormalizeCriteria(criteria)
	count = clamp(count, 1, MaxTemplates)

	primary := FilterByEquipment(pool, c.AllowedEquipment)
	backup := FilterByEquipment(backupPool, c.AllowedEquipment)
	cardioPrimary, cardioBackup := cardioOnly(primary), cardioOnly(backup)

	// Walk in calendar order so the previous assignment is the previous training day.
	days := slices.Sorted(slices.Values(c.PreferredDays))
	quota := CardioQuota(c, len(days))

	rng := g.newRand()
	templates := make([]domain.GeneratedScheduleTemplate, 0, count)
	for i := range count {
		general := newDeck(primary, backup, rng)
		cardio := newDeck(cardioPrimary, cardioBackup, rng)

		assignments := assign(days, quota, general, cardio, c.AllowBackToBack)
		if len(assignments) == 0 {
			continue
		}
		templates = append(templates, g.buildTemplate(i+1, assignments, c))
	}
	return templates
}

func assign(days []int, cardioQuota int, general, cardio *deck, allowBackToBack bool) []assignment {
	assignments := make([]assignment, 0, len(days))
	cardioCount := 0

	for _, day := range days {
		var (
			t      domain.WorkoutTemplate
			ok     bool
			source = general
		)
		if cardioCount < cardioQuota {
			if t, ok = cardio.draw(); ok {
				source = cardio
			}
		}
		if !ok {
			if t, ok = general.draw(); !ok {
				continue
			}
		}

		if !allowBackToBack && len(assignments) > 0 {
			prev := assignments[len(assignments)-1].template
			if prev.ID == t.ID {
				alt, found := source.alternative(prev.ID)
				if !found && source != general {
					alt, found = general.alternative(prev.ID)
				}
				// Best effort: keep the repeat when nothing else is available.
				if found {
					source.putBack(t)
					t = alt
				}
			}
		}

		isCardio := IsCardio(t)
		if isCardio {
			cardioCount++
		}
		assignments = append(assignments, assignment{day: day, template: t, cardio: isCardio})
	}
	return assignments
}
