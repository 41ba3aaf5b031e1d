package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okudrin/habitry/pkg/entity"
	"github.com/stretchr/testify/assert"
)

type habitsRepoStub struct {
	candidates []*entity.Habit
	err        error
	calls      int
	lastSince  time.Time
}

func (stub *habitsRepoStub) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	return uuid.UUID{}, errors.New("not implemented")
}

func (stub *habitsRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	return nil, errors.New("not implemented")
}

func (stub *habitsRepoStub) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	return nil, errors.New("not implemented")
}

func (stub *habitsRepoStub) GetSubtree(ctx context.Context, id uuid.UUID) ([]*entity.Habit, error) {
	return nil, errors.New("not implemented")
}

func (stub *habitsRepoStub) Update(ctx context.Context, habit *entity.Habit) error {
	return errors.New("not implemented")
}

func (stub *habitsRepoStub) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (stub *habitsRepoStub) ListStreakCandidates(ctx context.Context, since time.Time) ([]*entity.Habit, error) {
	stub.calls++
	stub.lastSince = since
	return stub.candidates, stub.err
}

func TestNewStreakChecker(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		checker, err := NewStreakChecker(&habitsRepoStub{}, "0 20 * * *")
		assert.NoError(t, err)
		assert.NotNil(t, checker)
	})
	t.Run("nil repo", func(t *testing.T) {
		_, err := NewStreakChecker(nil, "0 20 * * *")
		assert.Error(t, err)
	})
}

func TestStreakCheckerStart(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		checker, err := NewStreakChecker(&habitsRepoStub{}, "not a schedule")
		assert.NoError(t, err)
		assert.Error(t, checker.Start())
	})
	t.Run("started and stopped", func(t *testing.T) {
		checker, err := NewStreakChecker(&habitsRepoStub{}, "0 20 * * *")
		assert.NoError(t, err)
		assert.NoError(t, checker.Start())
		assert.NoError(t, checker.Stop())
	})
}

func TestCheckStreaks(t *testing.T) {
	t.Run("asks for logs since start of today", func(t *testing.T) {
		stub := &habitsRepoStub{
			candidates: []*entity.Habit{
				{ID: uuid.New(), UserID: uuid.New(), Title: "reading"},
			},
		}
		checker, err := NewStreakChecker(stub, "0 20 * * *")
		assert.NoError(t, err)
		checker.checkStreaks()
		assert.Equal(t, 1, stub.calls)
		assert.Equal(t, 0, stub.lastSince.Hour())
		assert.Equal(t, 0, stub.lastSince.Minute())
		assert.WithinDuration(t, time.Now(), stub.lastSince, 24*time.Hour)
	})
	t.Run("repo error doesn't panic", func(t *testing.T) {
		stub := &habitsRepoStub{err: errors.New("db error")}
		checker, err := NewStreakChecker(stub, "0 20 * * *")
		assert.NoError(t, err)
		checker.checkStreaks()
		assert.Equal(t, 1, stub.calls)
	})
}
