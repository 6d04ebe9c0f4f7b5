package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/domain/task"
	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/notifications"
)

// ErrUnknownTaskType marks payloads this executor cannot route.
// Retrying cannot fix it, so the worker fails the task on first sight.
var ErrUnknownTaskType = errors.New("unknown task type")

type JobReader interface {
	GetByID(ctx context.Context, id string) (job.Job, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// NotificationExecutor resolves a task payload into a notification send.
// Unknown task types fail permanently rather than retrying forever.
type NotificationExecutor struct {
	jobs     JobReader
	users    UserReader
	notifier notifications.Notifier
}

func NewNotificationExecutor(jobs JobReader, users UserReader, notifier notifications.Notifier) *NotificationExecutor {
	return &NotificationExecutor{jobs: jobs, users: users, notifier: notifier}
}

func (e *NotificationExecutor) Execute(ctx context.Context, t task.Task) error {
	switch t.Type {
	case task.TypeApplicationReceived:
		return e.applicationReceived(ctx, t)
	default:
		return fmt.Errorf("%w %q", ErrUnknownTaskType, t.Type)
	}
}

func (e *NotificationExecutor) applicationReceived(ctx context.Context, t task.Task) error {
	var p task.ApplicationReceivedPayload

	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	j, err := e.jobs.GetByID(loadCtx, p.JobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", p.JobID, err)
	}

	seeker, err := e.users.GetByID(loadCtx, p.SeekerID)
	if err != nil {
		return fmt.Errorf("load seeker %s: %w", p.SeekerID, err)
	}

	employer, err := e.users.GetByID(loadCtx, p.EmployerID)
	if err != nil {
		return fmt.Errorf("load employer %s: %w", p.EmployerID, err)
	}

	return e.notifier.SendApplicationReceived(ctx, notifications.SendApplicationReceivedInput{
		ApplicationID: p.ApplicationID,
		JobID:         j.ID,
		JobTitle:      j.JobTitle,
		SeekerName:    seeker.Fullname,
		EmployerEmail: employer.Email,
	})
}
