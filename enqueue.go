package workerinject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var insertColumns = []string{
	"id", "queue", "type", "arg", "attempt", "next_run_at", "created_at", "updated_at", "request_id",
}

type ExecerContext interface {
	ExecContext(ctx context.Context, s string, args ...any) (sql.Result, error)
}

// Enqueue inserts a job using e, which may be a *sql.Tx to enqueue
// together with a business transaction.
func Enqueue(ctx context.Context, e ExecerContext, req EnqueueRequest) error {
	return BulkEnqueue(ctx, e, []EnqueueRequest{req})
}

func BulkEnqueue(ctx context.Context, e ExecerContext, list []EnqueueRequest) error {
	jobs, err := requestsToJobs(list)
	if err != nil {
		return err
	}

	err = bulkInsert(ctx, e, jobs)
	if errors.Is(err, ErrJobAlreadyExist) {
		return err
	}
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	return nil
}

func requestsToJobs(list []EnqueueRequest) ([]Job, error) {
	if len(list) == 0 {
		return nil, errors.New("list is empty. at least one job is expected")
	}

	jobs := make([]Job, 0, len(list))
	now := timeNow()
	for _, req := range list {
		if req.Queue == "" {
			return nil, ErrQueueIsRequired
		}
		if req.Type == "" {
			return nil, ErrTypeIsRequired
		}

		id := req.Id
		if id == "" {
			generated, err := nextId()
			if err != nil {
				return nil, fmt.Errorf("generate id: %w", err)
			}
			id = generated
		}
		jobs = append(jobs, Job{
			Id:        id,
			Queue:     req.Queue,
			Type:      req.Type,
			Arg:       req.Arg,
			RequestId: req.RequestId,
			NextRunAt: now.Add(req.Delay).Unix(),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return jobs, nil
}

func bulkInsert(ctx context.Context, e ExecerContext, jobs []Job) error {
	rows := make([]string, 0, len(jobs))
	args := make([]any, 0, len(jobs)*len(insertColumns))
	for _, job := range jobs {
		placeholders := make([]string, len(insertColumns))
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+i+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ",")+")")
		args = append(
			args,
			job.Id,
			job.Queue,
			job.Type,
			job.Arg,
			job.Attempt,
			job.NextRunAt,
			job.CreatedAt,
			job.UpdatedAt,
			job.RequestId,
		)
	}

	query := fmt.Sprintf(
		"INSERT INTO workerinject_job (%s) VALUES %s",
		strings.Join(insertColumns, ", "),
		strings.Join(rows, ","),
	)
	_, err := e.ExecContext(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrJobAlreadyExist
	}
	return err
}
