package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/authz"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/application"
	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/domain/task"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
	"github.com/hiremesh/jobhub/internal/repo/postgres"
	"github.com/hiremesh/jobhub/internal/utils"
	"github.com/jackc/pgx/v5"
)

type ApplicationsStore interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, a application.Application) error
	GetByID(ctx context.Context, id string) (application.Application, error)
	GetForJobAndSeeker(ctx context.Context, jobID, seekerID string) (application.Application, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]application.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]application.Application, error)
	ListByEmployer(ctx context.Context, employerID string) ([]application.Application, error)
	UpdateStatus(ctx context.Context, id, status string, notes *string) (application.Application, error)
	Delete(ctx context.Context, id string) error
}

type JobGetter interface {
	GetByID(ctx context.Context, id string) (job.Job, error)
}

type TaskEnqueuer interface {
	CreateTx(ctx context.Context, tx pgx.Tx, req task.CreateRequest) (task.Task, error)
}

type SeekerResumeReader interface {
	ResumeURL(ctx context.Context, userID string) (string, error)
}

type ApplicationsHandler struct {
	repo    ApplicationsStore
	jobs    JobGetter
	tasks   TaskEnqueuer
	resumes SeekerResumeReader
}

func NewApplicationsHandler(repo ApplicationsStore, jobs JobGetter, tasks TaskEnqueuer, resumes SeekerResumeReader) *ApplicationsHandler {
	return &ApplicationsHandler{repo: repo, jobs: jobs, tasks: tasks, resumes: resumes}
}

// Apply creates the application and enqueues the employer notification
// in one transaction, so a notification never exists for an application
// that failed to commit.
func (h *ApplicationsHandler) Apply(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req application.ApplyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !utils.IsUUID(req.JobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	j, err := h.jobs.GetByID(cctx, req.JobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not apply for job")
		return
	}

	if j.Status != job.StatusActive {
		RespondBadRequest(ctx, "This job is no longer accepting applications", nil)
		return
	}

	// resume snapshot at apply time; an empty profile is fine
	resumeURL := ""
	if h.resumes != nil {
		if url, rErr := h.resumes.ResumeURL(cctx, userID); rErr == nil {
			resumeURL = url
		}
	}

	a := application.New(req, userID, j.EmployerID, resumeURL)

	tx, err := h.repo.BeginTx(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not apply for job")
		return
	}

	defer func() { _ = tx.Rollback(cctx) }()

	err = h.repo.CreateTx(cctx, tx, a)

	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			RespondConflict(ctx, "already_applied", "You have already applied for this job")
			return
		}

		RespondInternal(ctx, "Could not apply for job")
		return
	}

	payload := task.ApplicationReceivedPayload{
		ApplicationID: a.ID,
		JobID:         a.JobID,
		SeekerID:      a.SeekerID,
		EmployerID:    a.EmployerID,
		RequestedAt:   time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		RespondInternal(ctx, "Could not apply for job")
		return
	}

	key := "application:received:" + a.ID

	_, err = h.tasks.CreateTx(cctx, tx, task.CreateRequest{
		Type:           task.TypeApplicationReceived,
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		IdempotencyKey: &key,
	})

	if err != nil {
		// duplicate idempotency key means the notification already exists
		if !postgres.IsUniqueViolation(err) {
			RespondInternal(ctx, "Could not apply for job")
			return
		}
	}

	if err := tx.Commit(cctx); err != nil {
		RespondInternal(ctx, "Could not apply for job")
		return
	}

	ctx.Set(middlewares.CtxJobID, a.JobID)
	ctx.JSON(http.StatusCreated, a)
}

func (h *ApplicationsHandler) MyApplications(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.ListBySeeker(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list applications")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// ListForJob serves the owning employer. Existence is checked before
// ownership so a missing job is a 404, never a 403.
func (h *ApplicationsHandler) ListForJob(ctx *gin.Context) {
	jobID := ctx.Param("jobId")

	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.jobs.GetByID(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not list applications")
		return
	}

	if d := authz.CanPerform(authz.ActionViewJobApplications, userID, j); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	items, err := h.repo.ListByJob(cctx, jobID)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not list applications")
		return
	}

	ctx.Set(middlewares.CtxJobID, jobID)
	ctx.JSON(http.StatusOK, gin.H{
		"jobId":        jobID,
		"count":        len(items),
		"applications": items,
	})
}

func (h *ApplicationsHandler) AllForEmployer(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.ListByEmployer(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list applications")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// CheckApplied tells the seeker whether they already applied to a job.
func (h *ApplicationsHandler) CheckApplied(ctx *gin.Context) {
	jobID := ctx.Param("jobId")

	if !utils.IsUUID(jobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	a, err := h.repo.GetForJobAndSeeker(cctx, jobID, userID)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"applied": false})
			return
		}

		RespondInternal(ctx, "Could not check application")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"applied":     true,
		"application": a,
	})
}

func (h *ApplicationsHandler) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "application id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req application.StatusUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not update application")
		return
	}

	if d := authz.CanPerform(authz.ActionUpdateApplicationStatus, userID, existing); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	updated, err := h.repo.UpdateStatus(cctx, id, req.Status, req.Notes)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not update application")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *ApplicationsHandler) Withdraw(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "application id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not delete application")
		return
	}

	if d := authz.CanPerform(authz.ActionWithdrawApplication, userID, existing); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not delete application")
		return
	}

	slog.Info("application withdrawn", "application_id", id, "seeker_id", userID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Application withdrawn successfully"})
}
