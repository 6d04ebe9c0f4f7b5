package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hiremesh/jobhub/internal/domain/task"
)

// ProcessOne claims and runs a single task. The bool reports whether a
// task was claimed at all, so callers can tell an empty queue from work.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	t, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return false, nil
		}

		return false, err
	}

	w.log.Info("claimed task", "task_id", t.ID, "type", t.Type, "attempt", t.Attempts)

	start := time.Now()

	if w.prom != nil {
		w.prom.TasksInFlight.Inc()
	}

	err = w.executor.Execute(ctx, t)

	if w.prom != nil {
		w.prom.TasksInFlight.Dec()
	}

	if err != nil {
		result := w.handleFailure(ctx, t, err)
		w.observeResult(t.Type, result, time.Since(start))
		return true, nil
	}

	err = w.repo.MarkDone(ctx, t.ID)

	if err != nil {
		_ = w.repo.MarkFailed(ctx, t.ID, "mark_done_failed: "+err.Error())
		w.observeResult(t.Type, "failed", time.Since(start))
		return true, err
	}

	w.observeResult(t.Type, "done", time.Since(start))
	return true, nil
}

// handleFailure retries with backoff until attempts run out. Tasks the
// executor cannot route are failed on the first attempt: no amount of
// retrying makes an unknown type routable. Returns the result label
// recorded in metrics.
func (w *Worker) handleFailure(ctx context.Context, t task.Task, execErr error) string {
	if errors.Is(execErr, ErrUnknownTaskType) || t.Attempts+1 >= t.MaxAttempts {
		if err := w.repo.MarkFailed(ctx, t.ID, execErr.Error()); err != nil {
			w.log.Error("mark failed error", "task_id", t.ID, "err", err)
		}

		w.log.Warn("task failed permanently", "task_id", t.ID, "type", t.Type, "err", execErr)
		return "failed"
	}

	runAt := time.Now().UTC().Add(ExponentialBackoff(t.Attempts))

	if err := w.repo.Reschedule(ctx, t.ID, runAt, execErr.Error()); err != nil {
		w.log.Error("reschedule error", "task_id", t.ID, "err", err)
		return "retry"
	}

	w.log.Info("task rescheduled", "task_id", t.ID, "type", t.Type, "run_at", runAt, "err", execErr)
	return "retry"
}

func (w *Worker) observeResult(taskType, result string, elapsed time.Duration) {
	if w.prom == nil {
		return
	}

	w.prom.TaskResults.WithLabelValues(taskType, result).Inc()
	w.prom.TaskDuration.WithLabelValues(taskType, result).Observe(elapsed.Seconds())
}
