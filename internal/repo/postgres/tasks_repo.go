package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hiremesh/jobhub/internal/domain/task"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, type, payload, status, attempts, max_attempts,
	run_at, locked_at, locked_by, last_error, idempotency_key, created_at, updated_at`

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanTask(row pgx.Row, t *task.Task) error {
	var status string

	err := row.Scan(
		&t.ID, &t.Type, &t.Payload, &status, &t.Attempts, &t.MaxAttempts,
		&t.RunAt, &t.LockedAt, &t.LockedBy, &t.LastError, &t.IdempotencyKey,
		&t.CreatedAt, &t.UpdatedAt,
	)

	if err != nil {
		return err
	}

	t.Status = task.Status(status)
	return nil
}

func (r *TasksRepo) Create(ctx context.Context, req task.CreateRequest) (task.Task, error) {
	t := task.New(req)

	err := r.observe("tasks.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO tasks (id, type, payload, status, attempts, max_attempts,
				run_at, locked_at, locked_by, last_error, idempotency_key, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			t.ID, t.Type, t.Payload, string(t.Status), t.Attempts, t.MaxAttempts,
			t.RunAt, t.LockedAt, t.LockedBy, t.LastError, t.IdempotencyKey, t.CreatedAt, t.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// CreateTx enqueues a task inside the caller's transaction so the task
// commits or rolls back together with the domain write that caused it.
func (r *TasksRepo) CreateTx(ctx context.Context, tx pgx.Tx, req task.CreateRequest) (task.Task, error) {
	t := task.New(req)

	err := r.observe("tasks.create_tx", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO tasks (id, type, payload, status, attempts, max_attempts,
				run_at, locked_at, locked_by, last_error, idempotency_key, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			t.ID, t.Type, t.Payload, string(t.Status), t.Attempts, t.MaxAttempts,
			t.RunAt, t.LockedAt, t.LockedBy, t.LastError, t.IdempotencyKey, t.CreatedAt, t.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// ClaimNext atomically claims one runnable task using SKIP LOCKED so
// concurrent workers never pick the same row.
func (r *TasksRepo) ClaimNext(ctx context.Context, workerID string) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.claim_next", func() error {
		return scanTask(r.pool.QueryRow(ctx, `
			WITH next AS (
				SELECT id
				FROM tasks
				WHERE status = 'pending'
				  AND run_at <= NOW()
				  AND attempts < max_attempts
				ORDER BY run_at ASC, created_at ASC
				FOR UPDATE SKIP LOCKED
				LIMIT 1
			)
			UPDATE tasks
			SET status = 'processing',
			    locked_at = NOW(),
			    locked_by = $1,
			    updated_at = NOW()
			WHERE id = (SELECT id FROM next)
			RETURNING `+taskColumns,
			workerID), &t)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) MarkDone(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("tasks.mark_done", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `
			UPDATE tasks
			SET status = 'done',
			    locked_at = NULL,
			    locked_by = NULL,
			    last_error = NULL,
			    updated_at = NOW()
			WHERE id = $1
		`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

func (r *TasksRepo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	var tag pgconn.CommandTag

	err := r.observe("tasks.mark_failed", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `
			UPDATE tasks
			SET status = 'failed',
			    locked_at = NULL,
			    locked_by = NULL,
			    last_error = $2,
			    updated_at = NOW()
			WHERE id = $1
		`, id, errMsg)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

func (r *TasksRepo) Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error {
	var tag pgconn.CommandTag

	err := r.observe("tasks.reschedule", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `
			UPDATE tasks
			SET status = 'pending',
			    attempts = attempts + 1,
			    run_at = $2,
			    locked_at = NULL,
			    locked_by = NULL,
			    last_error = $3,
			    updated_at = NOW()
			WHERE id = $1
		`, id, runAt, errMsg)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}

	return nil
}

func (r *TasksRepo) GetByIdempotencyKey(ctx context.Context, key string) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.get_by_idempotency_key", func() error {
		return scanTask(r.pool.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE idempotency_key = $1`, key), &t)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

// RequeueStaleProcessing returns tasks whose worker died mid-flight to
// the pending state once their lock has aged past lockTTL.
func (r *TasksRepo) RequeueStaleProcessing(ctx context.Context, lockTTL time.Duration) (int64, error) {
	secs := int64(lockTTL.Seconds())
	if secs <= 0 {
		secs = 30
	}

	var rows int64

	err := r.observe("tasks.requeue_stale", func() error {
		tag, e := r.pool.Exec(ctx, `
			UPDATE tasks
			SET status = 'pending',
			    locked_at = NULL,
			    locked_by = NULL,
			    updated_at = NOW()
			WHERE status = 'processing'
			  AND locked_at IS NOT NULL
			  AND locked_at < NOW() - ($1 * INTERVAL '1 second')
		`, secs)

		if e != nil {
			return e
		}

		rows = tag.RowsAffected()
		return nil
	})

	return rows, err
}
