package generator

import (
	"math/rand/v2"
	"slices"

	"alcyxob/fitness-schedule/internal/domain"
)

// deck hands out templates in shuffled order. When the queue runs dry it is
// refilled from the backup pool, or from the primary pool if there is no backup.
type deck struct {
	primary []domain.WorkoutTemplate
	backup  []domain.WorkoutTemplate
	queue   []domain.WorkoutTemplate
	rng     *rand.Rand
}

func newDeck(primary, backup []domain.WorkoutTemplate, rng *rand.Rand) *deck {
	d := &deck{primary: primary, backup: backup, rng: rng}
	d.queue = d.shuffled(primary)
	return d
}

func (d *deck) shuffled(pool []domain.WorkoutTemplate) []domain.WorkoutTemplate {
	out := slices.Clone(pool)
	d.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (d *deck) refill() bool {
	switch {
	case len(d.backup) > 0:
		d.queue = d.shuffled(d.backup)
	case len(d.primary) > 0:
		d.queue = d.shuffled(d.primary)
	default:
		return false
	}
	return true
}

func (d *deck) draw() (domain.WorkoutTemplate, bool) {
	if len(d.queue) == 0 && !d.refill() {
		return domain.WorkoutTemplate{}, false
	}
	t := d.queue[0]
	d.queue = d.queue[1:]
	return t, true
}

// putBack returns a drawn template to the front of the queue.
func (d *deck) putBack(t domain.WorkoutTemplate) {
	d.queue = slices.Insert(d.queue, 0, t)
}

// alternative takes a template whose id differs from excludeID: the next suitable
// queued one, otherwise a random pick from the source pools.
func (d *deck) alternative(excludeID string) (domain.WorkoutTemplate, bool) {
	for i, t := range d.queue {
		if t.ID != excludeID {
			d.queue = slices.Delete(d.queue, i, i+1)
			return t, true
		}
	}
	var candidates []domain.WorkoutTemplate
	for _, t := range slices.Concat(d.backup, d.primary) {
		if t.ID != excludeID {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return domain.WorkoutTemplate{}, false
	}
	return candidates[d.rng.IntN(len(candidates))], true
}
