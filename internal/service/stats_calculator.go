package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/okudrin/habitry/pkg/entity"
)

// StatsCalculator derives streaks and completion rate from the raw log
// history of a habit subtree. Pure computation, no repository access:
// the tracking service hands it everything it needs.
type StatsCalculator struct {
	// Reference time for "today". Injectable for tests
	Now time.Time
}

// ValidLogValue checks a logged value against habit type semantics:
// boolean takes 0/1, time is minutes within a day, numeric any non-negative
func ValidLogValue(t entity.HabitType, value float64) bool {
	switch t {
	case entity.TypeBoolean:
		return value == 0 || value == 1
	case entity.TypeTime:
		return value >= 0 && value <= 1440
	default:
		return value >= 0
	}
}

// Calculate aggregates logs of the whole subtree. A day counts as
// completed for the root when at least one habit in the subtree reached
// its own target that day, so a parent with silent direct history still
// inherits its children's streaks.
func (c StatsCalculator) Calculate(root *entity.Habit, subtree []*entity.Habit, logs []entity.LogEntry, window *StatsWindow) *entity.HabitStats {
	stats := &entity.HabitStats{
		ID:        root.ID,
		TotalLogs: len(logs),
	}

	habitsByID := make(map[uuid.UUID]*entity.Habit, len(subtree))
	for _, h := range subtree {
		habitsByID[h.ID] = h
	}

	// Per habit, per day totals. Entries within one day accumulate
	totals := make(map[uuid.UUID]map[time.Time]float64)
	var lastLog time.Time
	for _, l := range logs {
		if _, ok := habitsByID[l.HabitID]; !ok {
			continue
		}
		d := dayOf(l.LogDate)
		if totals[l.HabitID] == nil {
			totals[l.HabitID] = make(map[time.Time]float64)
		}
		totals[l.HabitID][d] += l.Value
		if l.LogDate.After(lastLog) {
			lastLog = l.LogDate
		}
	}
	stats.LastLog = lastLog

	completed := make(map[time.Time]bool)
	for habitID, days := range totals {
		target := habitsByID[habitID].Target
		for d, total := range days {
			if total >= target {
				completed[d] = true
			}
		}
	}
	if len(completed) == 0 {
		return stats
	}

	// Current streak breaks as soon as today is missed
	today := dayOf(c.Now)
	for d := today; completed[d]; d = d.AddDate(0, 0, -1) {
		stats.CurrentStreak++
	}

	days := make([]time.Time, 0, len(completed))
	for d := range completed {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	run := 1
	stats.LongestStreak = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	from, to := c.windowBounds(root, window)
	totalDays := int(to.Sub(from).Hours()/24) + 1
	if totalDays < 1 {
		return stats
	}
	completedInWindow := 0
	for _, d := range days {
		if !d.Before(from) && !d.After(to) {
			completedInWindow++
		}
	}
	stats.CompletionRate = float64(completedInWindow) / float64(totalDays)
	return stats
}

// windowBounds defaults to [created_at, now] and clips a window start
// that predates the habit itself
func (c StatsCalculator) windowBounds(root *entity.Habit, window *StatsWindow) (time.Time, time.Time) {
	created := dayOf(root.CreatedAt)
	from := created
	to := dayOf(c.Now)
	if window != nil {
		if !window.From.IsZero() {
			from = dayOf(window.From)
		}
		if !window.To.IsZero() {
			to = dayOf(window.To)
		}
	}
	if from.Before(created) {
		from = created
	}
	return from, to
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
