package workerinject

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Tx interface {
	Job() Job
	Update(ctx context.Context, id string, attempt int32, lastError string, nextRunAt int64) error
	UpdateNextRun(ctx context.Context, id string, nextRunAt int64) error
	Delete(ctx context.Context, id string) error
	SaveInDlq(ctx context.Context, job Job) error
}

type Store interface {
	Acquire(ctx context.Context, queue string, tx func(tx Tx) error) error
	BulkInsert(ctx context.Context, jobs []Job) error
	BulkDelete(ctx context.Context, ids []string) error
}

// Client enqueues jobs and runs a single job acquired from a queue.
type Client struct {
	store Store
}

func NewClient(store Store) *Client {
	return &Client{
		store: store,
	}
}

func (c *Client) Enqueue(ctx context.Context, req EnqueueRequest) error {
	return c.BulkEnqueue(ctx, []EnqueueRequest{req})
}

func (c *Client) BulkEnqueue(ctx context.Context, list []EnqueueRequest) error {
	jobs, err := requestsToJobs(list)
	if err != nil {
		return err
	}

	err = c.store.BulkInsert(ctx, jobs)
	if errors.Is(err, ErrJobAlreadyExist) {
		return err
	}
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	return nil
}

func (c *Client) Dequeue(ctx context.Context, id string) error {
	return c.BulkDequeue(ctx, []string{id})
}

func (c *Client) BulkDequeue(ctx context.Context, ids []string) error {
	err := c.store.BulkDelete(ctx, ids)
	if err != nil {
		return errors.WithMessage(err, "bulk delete")
	}
	return nil
}

// Do acquires one due job from queue, runs f and applies its Result in the same transaction.
// Returns ErrEmptyQueue if nothing is due.
func (c *Client) Do(ctx context.Context, queue string, f func(ctx context.Context, job Job) Result) error {
	return c.store.Acquire(ctx, queue, func(tx Tx) error {
		return c.jobTx(ctx, tx, f)
	})
}

func (c *Client) jobTx(ctx context.Context, tx Tx, f func(ctx context.Context, job Job) Result) error {
	job := tx.Job()
	job.Attempt++

	result := f(ctx, job)

	if result.complete {
		err := tx.Delete(ctx, job.Id)
		if err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
	}

	if result.retry {
		err := tx.Update(
			ctx,
			job.Id,
			job.Attempt,
			result.errString(),
			timeNow().Add(result.retryDelay).Unix(),
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
	}

	if result.moveToDlq {
		errorString := result.errString()
		job.LastError = &errorString
		err := tx.SaveInDlq(ctx, job)
		if err != nil {
			return fmt.Errorf("insert into dlq: %w", err)
		}

		err = tx.Delete(ctx, job.Id)
		if err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
	}

	if result.reschedule {
		err := tx.UpdateNextRun(
			ctx,
			job.Id,
			timeNow().Add(result.rescheduleDelay).Unix(),
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
	}

	return nil
}

func nextId() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.WithMessage(err, "generate uuid")
	}
	return id.String(), nil
}

func timeNow() time.Time {
	return time.Now().UTC()
}
