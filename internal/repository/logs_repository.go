package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/okudrin/habitry/internal/error_values"
	"github.com/okudrin/habitry/pkg/cleanup"
	"github.com/okudrin/habitry/pkg/entity"
)

type LogsRepository struct {
	conn PgConnection
}

func NewLogsRepo(cfg DBConfig) *LogsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for logsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for logsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing logsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &LogsRepository{
		conn: pool,
	}
}

func NewLogsRepoWithConn(conn PgConnection) *LogsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for logsRepo: " + err.Error())
	}
	return &LogsRepository{
		conn: conn,
	}
}

func (lr *LogsRepository) Create(ctx context.Context, logEntry *entity.LogEntry) (int, error) {
	var id int
	row := lr.conn.QueryRow(ctx,
		`INSERT INTO habit_logs (habit_id, log_date, value) VALUES ($1, $2, $3) RETURNING id;`,
		logEntry.HabitID,
		logEntry.LogDate,
		logEntry.Value,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return 0, errorvalues.ErrHabitNotFound
			}
		}
		return 0, errors.New("creating log entry error: " + err.Error())
	}
	return id, nil
}

func (lr *LogsRepository) GetByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.LogEntry, error) {
	rows, err := lr.conn.Query(ctx,
		`SELECT id, habit_id, log_date, value, created_at FROM habit_logs WHERE habit_id = $1 ORDER BY log_date;`,
		habitID)
	if err != nil {
		return nil, errors.New("getting logs by habit error: " + err.Error())
	}
	defer rows.Close()
	return scanLogs(rows)
}

func (lr *LogsRepository) GetByHabitIDs(ctx context.Context, habitIDs []uuid.UUID) ([]entity.LogEntry, error) {
	rows, err := lr.conn.Query(ctx,
		`SELECT id, habit_id, log_date, value, created_at FROM habit_logs WHERE habit_id = ANY($1) ORDER BY log_date;`,
		habitIDs)
	if err != nil {
		return nil, errors.New("getting logs by habit set error: " + err.Error())
	}
	defer rows.Close()
	return scanLogs(rows)
}

func scanLogs(rows pgx.Rows) ([]entity.LogEntry, error) {
	result := make([]entity.LogEntry, 0, 2)
	for rows.Next() {
		logEntry := entity.LogEntry{}
		err := rows.Scan(&logEntry.ID, &logEntry.HabitID, &logEntry.LogDate, &logEntry.Value, &logEntry.CreatedAt)
		if err != nil {
			return nil, errors.New("log row parsing error: " + err.Error())
		}
		result = append(result, logEntry)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected log rows error: " + rows.Err().Error())
	}
	return result, nil
}
