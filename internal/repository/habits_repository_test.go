package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/internal/repository"
	"github.com/okudrin/habitry/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

var (
	userID = uuid.New()
)

func habitColumns() []string {
	return []string{"id", "user_id", "parent_id", "title", "description", "category", "habit_type", "target", "created_at", "updated_at"}
}

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		UserID:      userID,
		Title:       "test_habit",
		Description: "blah blah blah",
		Category:    entity.CategoryHealth,
		Type:        entity.TypeBoolean,
		Target:      1.0,
	}
	hid := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(hid))
		id, err := repo.Create(ctx, &habit)
		assert.NoError(t, err)
		assert.Equal(t, hid, id)
	})
	t.Run("Unique violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrUserHasHabit)
	})
	t.Run("parent FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "habits_parent_id_fkey"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrParentNotFound)
	})
	t.Run("owner FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "habits_user_id_fkey"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &habit)
		assert.Error(t, err)
	})
}

func TestGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "test_habit",
		Description: "blah blah blah",
		Category:    entity.CategoryHealth,
		Type:        entity.TypeBoolean,
		Target:      1.0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	query := regexp.QuoteMeta(`FROM habits WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "parent_id", "title", "description", "category", "habit_type", "target", "created_at", "updated_at"}).
				AddRow(habit.UserID, habit.ParentID, habit.Title, habit.Description, habit.Category, habit.Type, habit.Target, habit.CreatedAt, habit.UpdatedAt),
			)
		result, err := repo.GetByID(ctx, habit.ID)
		assert.NoError(t, err)
		assert.Equal(t, habit, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestGetSubtree(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	rootID := uuid.New()
	childID := uuid.New()
	now := time.Now()
	query := regexp.QuoteMeta(`WITH RECURSIVE subtree AS`)
	ctx := context.Background()
	t.Run("root with child", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(rootID).
			WillReturnRows(pgxmock.NewRows(habitColumns()).
				AddRow(rootID, userID, nil, "parent", "", entity.CategoryHealth, entity.TypeBoolean, 1.0, now, now).
				AddRow(childID, userID, &rootID, "child", "", entity.CategoryHealth, entity.TypeBoolean, 1.0, now, now),
			)
		habits, err := repo.GetSubtree(ctx, rootID)
		assert.NoError(t, err)
		assert.Len(t, habits, 2)
		assert.Equal(t, rootID, habits[0].ID)
		assert.Equal(t, &rootID, habits[1].ParentID)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(rootID).
			WillReturnRows(pgxmock.NewRows(habitColumns()))
		_, err := repo.GetSubtree(ctx, rootID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestUpdateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "updated_title",
		Description: "updated_desc",
		Target:      2.0,
	}
	query := regexp.QuoteMeta(`UPDATE habits SET`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.Target, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &habit))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.Target, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &habit), errorvalues.ErrHabitNotFound)
	})
	t.Run("duplicate title", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.Target, habit.ID).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, repo.Update(ctx, &habit), errorvalues.ErrUserHasHabit)
	})
}

func TestDeleteSubtree(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM habits WHERE id IN`)
	ctx := context.Background()
	t.Run("deletes whole subtree", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		assert.NoError(t, repo.DeleteSubtree(ctx, id))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.DeleteSubtree(ctx, id), errorvalues.ErrHabitNotFound)
	})
}

func TestListStreakCandidates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	since := time.Now()
	now := time.Now()
	id := uuid.New()
	query := regexp.QuoteMeta(`NOT EXISTS (SELECT 1 FROM habit_logs l WHERE l.habit_id = h.id AND l.log_date >= $1);`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(since).
			WillReturnRows(pgxmock.NewRows(habitColumns()).
				AddRow(id, userID, nil, "reading", "", entity.CategoryLearning, entity.TypeNumeric, 10.0, now, now),
			)
		habits, err := repo.ListStreakCandidates(context.Background(), since)
		assert.NoError(t, err)
		assert.Len(t, habits, 1)
		assert.Equal(t, id, habits[0].ID)
	})
}
