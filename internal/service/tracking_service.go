package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/internal/repository"
	"github.com/okudrin/habitry/pkg/entity"
)

type TrackingService struct {
	habitsRepo repository.HabitsRepositoryI
	logsRepo   repository.LogsRepositoryI
}

func NewTrackingService(habitsRepo repository.HabitsRepositoryI, logsRepo repository.LogsRepositoryI) *TrackingService {
	if habitsRepo == nil || logsRepo == nil {
		log.Fatal("on tracking service provided nil repos")
	}
	return &TrackingService{
		habitsRepo: habitsRepo,
		logsRepo:   logsRepo,
	}
}

func (serv *TrackingService) RecordProgress(ctx context.Context, habitID, userID uuid.UUID, req RecordProgressRequest) (*entity.LogEntry, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	if date.After(time.Now()) {
		return nil, errorvalues.ErrLogDateNotAllowed
	}
	if !ValidLogValue(habit.Type, req.Value) {
		return nil, errorvalues.ErrLogValueNotAllowed
	}
	logEntry := entity.LogEntry{
		HabitID: habitID,
		LogDate: date,
		Value:   req.Value,
	}
	id, err := serv.logsRepo.Create(ctx, &logEntry)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	logEntry.ID = id
	return &logEntry, nil
}

func (serv *TrackingService) GetHabitLogs(ctx context.Context, habitID, userID uuid.UUID) ([]entity.LogEntry, error) {
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	logs, err := serv.logsRepo.GetByHabitID(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return logs, nil
}

func (serv *TrackingService) GetHabitStats(ctx context.Context, habitID, userID uuid.UUID, window *StatsWindow) (*entity.HabitStats, error) {
	subtree, err := serv.habitsRepo.GetSubtree(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	// Subtree root comes first
	root := subtree[0]
	if root.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	ids := make([]uuid.UUID, 0, len(subtree))
	for _, h := range subtree {
		ids = append(ids, h.ID)
	}
	logs, err := serv.logsRepo.GetByHabitIDs(ctx, ids)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	calc := StatsCalculator{Now: time.Now()}
	return calc.Calculate(root, subtree, logs, window), nil
}
