package generator

import (
	"slices"
	"strings"

	"alcyxob/fitness-schedule/internal/domain"
)

var (
	cardioCategoryKeywords = []string{"cardio", "hiit", "endurance", "interval", "run", "cycle"}
	cardioExerciseKeywords = []string{"cardio", "sprint", "run", "bike", "row"}
	cardioMuscleKeywords   = []string{"cardio", "aerobic", "endurance"}

	// Equipment that never restricts a template.
	freeEquipment = map[string]bool{"bodyweight": true, "body weight": true, "none": true, "": true}
)

// NormalizeEquipment lowercases and trims an equipment name.
func NormalizeEquipment(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = NormalizeEquipment(n); n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// RequiredEquipment lists the distinct non-bodyweight equipment a template needs, sorted.
func RequiredEquipment(t domain.WorkoutTemplate) []string {
	var out []string
	for _, ex := range t.Exercises {
		for _, eq := range ex.Equipment {
			eq = NormalizeEquipment(eq)
			if freeEquipment[eq] || slices.Contains(out, eq) {
				continue
			}
			out = append(out, eq)
		}
	}
	slices.Sort(out)
	return out
}

// FilterByEquipment keeps templates whose required equipment is a subset of allowed.
// An empty allowed list leaves the pool unconstrained. When the filter removes every
// template the unfiltered pool is returned instead.
func FilterByEquipment(pool []domain.WorkoutTemplate, allowed []string) []domain.WorkoutTemplate {
	allowed = normalizeAll(allowed)
	if len(allowed) == 0 || len(pool) == 0 {
		return pool
	}
	filtered := make([]domain.WorkoutTemplate, 0, len(pool))
	for _, t := range pool {
		ok := true
		for _, eq := range RequiredEquipment(t) {
			if !slices.Contains(allowed, eq) {
				ok = false
				break
			}
		}
		if ok {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return pool
	}
	return filtered
}

// IsCardio guesses whether a template is a cardio session from its category,
// name, exercise names and targeted muscles.
func IsCardio(t domain.WorkoutTemplate) bool {
	if containsAny(t.Category, cardioCategoryKeywords) || containsAny(t.Name, cardioCategoryKeywords) {
		return true
	}
	for _, ex := range t.Exercises {
		if containsAny(ex.Name, cardioExerciseKeywords) {
			return true
		}
		for _, m := range ex.Muscles {
			if containsAny(m, cardioMuscleKeywords) {
				return true
			}
		}
	}
	return false
}

func cardioOnly(pool []domain.WorkoutTemplate) []domain.WorkoutTemplate {
	var out []domain.WorkoutTemplate
	for _, t := range pool {
		if IsCardio(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
