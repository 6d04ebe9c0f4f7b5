package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/authz"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/domain/savedjob"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
	"github.com/hiremesh/jobhub/internal/utils"
)

type SavedJobsStore interface {
	Create(ctx context.Context, s savedjob.SavedJob) error
	ListByUser(ctx context.Context, userID string) ([]savedjob.SavedJobWithJob, error)
	ListJobIDs(ctx context.Context, userID string) ([]string, error)
	GetByUserAndJob(ctx context.Context, userID, jobID string) (savedjob.SavedJob, error)
	DeleteByUserAndJob(ctx context.Context, userID, jobID string) error
}

type SavedJobsHandler struct {
	repo SavedJobsStore
	jobs JobGetter
}

func NewSavedJobsHandler(repo SavedJobsStore, jobs JobGetter) *SavedJobsHandler {
	return &SavedJobsHandler{repo: repo, jobs: jobs}
}

func (h *SavedJobsHandler) Save(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req savedjob.SaveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !utils.IsUUID(req.JobID) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if _, err := h.jobs.GetByID(cctx, req.JobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not save job")
		return
	}

	s := savedjob.New(userID, req.JobID)

	if err := h.repo.Create(cctx, s); err != nil {
		if errors.Is(err, savedjob.ErrAlreadySaved) {
			RespondConflict(ctx, "already_saved", "Job already saved")
			return
		}

		RespondInternal(ctx, "Could not save job")
		return
	}

	ctx.Set(middlewares.CtxJobID, req.JobID)
	ctx.JSON(http.StatusCreated, s)
}

func (h *SavedJobsHandler) MySavedJobs(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list saved jobs")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// SavedIDs returns just the job ids, used by listings to mark bookmarks.
func (h *SavedJobsHandler) SavedIDs(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	ids, err := h.repo.ListJobIDs(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list saved jobs")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"jobIds": ids})
}

func (h *SavedJobsHandler) CheckSaved(ctx *gin.Context) {
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

	_, err := h.repo.GetByUserAndJob(cctx, userID, jobID)

	if err != nil {
		if errors.Is(err, savedjob.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"saved": false})
			return
		}

		RespondInternal(ctx, "Could not check saved job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *SavedJobsHandler) Unsave(ctx *gin.Context) {
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

	existing, err := h.repo.GetByUserAndJob(cctx, userID, jobID)

	if err != nil {
		if errors.Is(err, savedjob.ErrNotFound) {
			RespondNotFound(ctx, "Saved job not found")
			return
		}

		RespondInternal(ctx, "Could not remove saved job")
		return
	}

	if d := authz.CanPerform(authz.ActionUnsaveJob, userID, existing); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	if err := h.repo.DeleteByUserAndJob(cctx, userID, jobID); err != nil {
		if errors.Is(err, savedjob.ErrNotFound) {
			RespondNotFound(ctx, "Saved job not found")
			return
		}

		RespondInternal(ctx, "Could not remove saved job")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Job removed from saved jobs"})
}
