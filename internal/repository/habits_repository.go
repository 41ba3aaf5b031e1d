package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/pkg/cleanup"
	"github.com/okudrin/habitry/pkg/entity"
)

// subtreeCTE collects a habit together with all its descendants.
// Kept as one fragment so deletion and stats queries can't diverge
const subtreeCTE = `WITH RECURSIVE subtree AS (
		SELECT id, user_id, parent_id, title, description, category, habit_type, target, created_at, updated_at
		FROM habits WHERE id = $1
		UNION ALL
		SELECT h.id, h.user_id, h.parent_id, h.title, h.description, h.category, h.habit_type, h.target, h.created_at, h.updated_at
		FROM habits h JOIN subtree s ON h.parent_id = s.id
	)`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing habitsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx,
		`INSERT INTO habits (user_id, parent_id, title, description, category, habit_type, target)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		habit.UserID,
		habit.ParentID,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.Type,
		habit.Target,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrUserHasHabit
			// FK violation
			case "23503":
				if pgErr.ConstraintName == "habits_parent_id_fkey" {
					return uuid.UUID{}, errorvalues.ErrParentNotFound
				}
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx,
		`SELECT user_id, parent_id, title, description, category, habit_type, target, created_at, updated_at
		FROM habits WHERE id = $1;`, id)
	err := row.Scan(
		&habit.UserID,
		&habit.ParentID,
		&habit.Title,
		&habit.Description,
		&habit.Category,
		&habit.Type,
		&habit.Target,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx,
		`SELECT id, user_id, parent_id, title, description, category, habit_type, target, created_at, updated_at
		FROM habits WHERE user_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.ParentID, &h.Title, &h.Description, &h.Category, &h.Type, &h.Target, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) GetSubtree(ctx context.Context, id uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx,
		subtreeCTE+` SELECT id, user_id, parent_id, title, description, category, habit_type, target, created_at, updated_at FROM subtree;`,
		id)
	if err != nil {
		return nil, errors.New("getting habit subtree error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0, 1)
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.ParentID, &h.Title, &h.Description, &h.Category, &h.Type, &h.Target, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	if len(habits) == 0 {
		return nil, errorvalues.ErrHabitNotFound
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx,
		`UPDATE habits SET title = $1, description = $2, target = $3, updated_at = NOW() WHERE id = $4;`,
		habit.Title, habit.Description, habit.Target, habit.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrUserHasHabit
		}
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	// Logs go away through ON DELETE CASCADE on habit_logs
	ct, err := hr.conn.Exec(ctx,
		`DELETE FROM habits WHERE id IN (`+subtreeCTE+` SELECT id FROM subtree);`, id)
	if err != nil {
		return errors.New("error deleting habit subtree: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) ListStreakCandidates(ctx context.Context, since time.Time) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx,
		`SELECT id, user_id, parent_id, title, description, category, habit_type, target, created_at, updated_at
		FROM habits h
		WHERE EXISTS (SELECT 1 FROM habit_logs l WHERE l.habit_id = h.id)
		AND NOT EXISTS (SELECT 1 FROM habit_logs l WHERE l.habit_id = h.id AND l.log_date >= $1);`,
		since)
	if err != nil {
		return nil, errors.New("listing streak candidates error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.ParentID, &h.Title, &h.Description, &h.Category, &h.Type, &h.Target, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}
