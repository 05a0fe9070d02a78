package workerinject

import (
	"context"

	"github.com/pkg/errors"
)

// Dequeue deletes a pending job, e.g. when the entity it was enqueued for is gone.
func Dequeue(ctx context.Context, e ExecerContext, id string) error {
	return BulkDequeue(ctx, e, []string{id})
}

func BulkDequeue(ctx context.Context, e ExecerContext, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := e.ExecContext(ctx, "DELETE FROM "+jobTable+" WHERE id = ANY($1)", ids)
	if err != nil {
		return errors.WithMessage(err, "exec delete jobs")
	}
	return nil
}
