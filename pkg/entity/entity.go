package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// Category groups habits for filtering on the client side
type Category string

const (
	CategoryHealth       Category = "health"
	CategoryLearning     Category = "learning"
	CategoryProductivity Category = "productivity"
)

// HabitType defines how logged values are interpreted
type HabitType string

const (
	// Done / not done, values restricted to 0 and 1
	TypeBoolean HabitType = "boolean"
	// Measurable quantities (km, pages), any non-negative value
	TypeNumeric HabitType = "numeric"
	// Duration in minutes, 0..1440
	TypeTime HabitType = "time"
)

type Habit struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"uid"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"desc"`
	Category    Category   `json:"category"`
	Type        HabitType  `json:"type"`
	Target      float64    `json:"target"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsSub reports whether habit is nested under another one
func (h *Habit) IsSub() bool {
	return h.ParentID != nil
}

type LogEntry struct {
	ID        int       `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	LogDate   time.Time `json:"log_date"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type HabitStats struct {
	ID             uuid.UUID `json:"habit_id"`
	TotalLogs      int       `json:"total_logs"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	CompletionRate float64   `json:"completion_rate"`
	LastLog        time.Time `json:"last_log,omitempty"`
}
