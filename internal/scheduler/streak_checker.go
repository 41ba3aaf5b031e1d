package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/okudrin/habitry/internal/repository"
	"github.com/robfig/cron/v3"
)

// StreakChecker periodically looks for habits that were tracked before
// but have no log today, and surfaces them as streak-at-risk events.
// Plugging a real notification transport underneath is a matter of
// swapping the slog call.
type StreakChecker struct {
	habitsRepo repository.HabitsRepositoryI
	cron       *cron.Cron
	schedule   string
}

func NewStreakChecker(habitsRepo repository.HabitsRepositoryI, schedule string) (*StreakChecker, error) {
	if habitsRepo == nil {
		return nil, errors.New("provided nil habitsRepo")
	}
	return &StreakChecker{
		habitsRepo: habitsRepo,
		cron:       cron.New(),
		schedule:   schedule,
	}, nil
}

func (c *StreakChecker) Start() error {
	_, err := c.cron.AddFunc(c.schedule, c.checkStreaks)
	if err != nil {
		return errors.New("adding streak check cron job error: " + err.Error())
	}
	c.cron.Start()
	slog.Info("streak checker started", slog.String("schedule", c.schedule))
	return nil
}

func (c *StreakChecker) Stop() error {
	ctx := c.cron.Stop()
	<-ctx.Done()
	slog.Info("streak checker stopped")
	return nil
}

func (c *StreakChecker) checkStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	habits, err := c.habitsRepo.ListStreakCandidates(ctx, startOfDay)
	if err != nil {
		slog.Error("streak check failed", slog.String("error", err.Error()))
		return
	}
	for _, h := range habits {
		slog.Warn("streak at risk: habit has no log today",
			slog.String("habit_id", h.ID.String()),
			slog.String("uid", h.UserID.String()),
			slog.String("title", h.Title),
		)
	}
	slog.Info("streak check completed", slog.Int("at_risk", len(habits)))
}
