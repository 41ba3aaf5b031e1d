package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okudrin/habitry/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Title       string           `validate:"required,min=1,max=100"`
	Description string           `validate:"max=500"`
	Category    entity.Category  `validate:"omitempty,oneof=health learning productivity"`
	Type        entity.HabitType `validate:"omitempty,oneof=boolean numeric time"`
	Target      float64          `validate:"omitempty,gt=0"`
	ParentID    *uuid.UUID
}

type UpdateHabitRequest struct {
	Title       string  `validate:"required,min=1,max=100"`
	Description string  `validate:"max=500"`
	Target      float64 `validate:"omitempty,gt=0"`
}

type RecordProgressRequest struct {
	Date  *time.Time
	Value float64 `validate:"gte=0"`
}

// StatsWindow bounds completion rate computation. Zero fields fall
// back to the habit's creation date and now respectively
type StatsWindow struct {
	From time.Time
	To   time.Time
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	// Creates habit owned by uid. With ParentID set creates a sub-habit,
	// parent must exist and belong to the same user
	CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error)
	// Lists user's habits, top-level and nested, with pagination
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	// Replaces title, description and target. Parentage is structural and never changes
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error)
	// Deletes habit together with all descendants and their logs
	DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
	// Shortcut for CreateHabit with ParentID
	AddSubHabit(ctx context.Context, parentID, userID uuid.UUID, req CreateHabitRequest) (*entity.Habit, error)
}

type TrackingServiceI interface {
	// Appends a progress log. Date defaults to now, future dates are rejected,
	// value must suit the habit's type
	RecordProgress(ctx context.Context, habitID, userID uuid.UUID, req RecordProgressRequest) (*entity.LogEntry, error)
	// Habit's own logs sorted by date ascending
	GetHabitLogs(ctx context.Context, habitID, userID uuid.UUID) ([]entity.LogEntry, error)
	// Streaks and completion rate over the habit and its whole subtree
	GetHabitStats(ctx context.Context, habitID, userID uuid.UUID, window *StatsWindow) (*entity.HabitStats, error)
}
