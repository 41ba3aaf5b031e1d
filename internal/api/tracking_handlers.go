package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/internal/service"
	"github.com/okudrin/habitry/pkg/entity"
	"github.com/okudrin/habitry/pkg/httputil"
)

type RecordProgressRequest struct {
	Date  *time.Time `json:"date,omitempty"`
	Value float64    `json:"value"`
}

type GetLogsResponse struct {
	HabitID string            `json:"habit_id"`
	Logs    []entity.LogEntry `json:"logs"`
}

func (s *Server) RecordProgress(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record progress error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	habitID, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("record progress error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req RecordProgressRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("record progress error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	logEntry, err := s.trackingService.RecordProgress(ctx, habitID, uid, service.RecordProgressRequest{
		Date:  req.Date,
		Value: req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("record progress error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrLogDateNotAllowed):
			logger.Error("record progress error: future date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "log date can't be in future", nil)
		case errors.Is(err, errorvalues.ErrLogValueNotAllowed):
			logger.Error("record progress error: value doesn't suit habit type")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "log value doesn't suit habit type", nil)
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("record progress error: invalid log fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid log fields", err)
		default:
			logger.Error("record progress error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while recording progress", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, logEntry)
	logger.Info("progress recorded", slog.String("habit_id", habitID.String()))
}

func (s *Server) GetHabitLogs(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get logs error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	habitID, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("get logs error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	logs, err := s.trackingService.GetHabitLogs(ctx, habitID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get logs error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("get logs error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting logs", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetLogsResponse{
		HabitID: habitID.String(),
		Logs:    logs,
	})
	logger.Info("logs provided")
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	habitID, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("get stats error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	window, err := statsWindowFromQuery(r)
	if err != nil {
		logger.Error("get stats error: invalid window params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid from/to query params", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	stats, err := s.trackingService.GetHabitStats(ctx, habitID, uid, window)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get stats error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("get stats error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while computing stats", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
	logger.Info("stats provided")
}

// statsWindowFromQuery accepts from/to either as date-only or RFC3339
func statsWindowFromQuery(r *http.Request) (*service.StatsWindow, error) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" && toRaw == "" {
		return nil, nil
	}
	window := service.StatsWindow{}
	if fromRaw != "" {
		from, err := parseDateParam(fromRaw)
		if err != nil {
			return nil, err
		}
		window.From = from
	}
	if toRaw != "" {
		to, err := parseDateParam(toRaw)
		if err != nil {
			return nil, err
		}
		window.To = to
	}
	return &window, nil
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
