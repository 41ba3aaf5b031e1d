package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okudrin/habitry/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit. Title, UserID and tracking fields are necessary,
	// ParentID is optional and makes the habit a sub-habit
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits owned by user with uid. Requires pagination params provided
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Returns habit with id and all its descendants, root first
	GetSubtree(ctx context.Context, id uuid.UUID) ([]*entity.Habit, error)
	// Updates habit by ID (ID in habit is necessary). Parentage never changes
	Update(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id together with all its descendants and their logs
	DeleteSubtree(ctx context.Context, id uuid.UUID) error
	// Lists habits that have log history but no log since given time.
	// Used by the streak checker
	ListStreakCandidates(ctx context.Context, since time.Time) ([]*entity.Habit, error)
}

type LogsRepositoryI interface {
	// Creates new log entry for habit. Entries are append-only
	Create(ctx context.Context, log *entity.LogEntry) (int, error)
	// Provides logs of a single habit sorted by date ascending
	GetByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.LogEntry, error)
	// Provides logs of several habits at once, for stats over a subtree
	GetByHabitIDs(ctx context.Context, habitIDs []uuid.UUID) ([]entity.LogEntry, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
