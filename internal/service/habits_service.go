package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/internal/repository"
	"github.com/okudrin/habitry/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	// Defaults for a plain done/not-done habit
	if req.Category == "" {
		req.Category = entity.CategoryHealth
	}
	if req.Type == "" {
		req.Type = entity.TypeBoolean
	}
	if req.Target == 0 {
		req.Target = 1.0
	}
	if req.ParentID != nil {
		parent, err := hs.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, errorvalues.ErrHabitNotFound) {
				return nil, errorvalues.ErrParentNotFound
			}
			return nil, errors.New("habits repository error: " + err.Error())
		}
		if parent.UserID != uid {
			return nil, errorvalues.ErrParentNotFound
		}
	}
	h := entity.Habit{
		UserID:      uid,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Type:        req.Type,
		Target:      req.Target,
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrParentNotFound):
			return nil, err
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := hs.GetHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	habit.Title = req.Title
	habit.Description = req.Description
	if req.Target > 0 {
		habit.Target = req.Target
	}
	err = hs.repo.Update(ctx, habit)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound):
			return nil, err
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return errorvalues.ErrWrongOwner
	}
	err = hs.repo.DeleteSubtree(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) AddSubHabit(ctx context.Context, parentID, userID uuid.UUID, req CreateHabitRequest) (*entity.Habit, error) {
	req.ParentID = &parentID
	return hs.CreateHabit(ctx, userID, req)
}
