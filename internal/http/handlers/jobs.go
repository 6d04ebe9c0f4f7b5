package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/authz"
	"github.com/hiremesh/jobhub/internal/cache"
	"github.com/hiremesh/jobhub/internal/config"
	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
	"github.com/hiremesh/jobhub/internal/utils"
)

type JobsStore interface {
	Create(ctx context.Context, j job.Job) error
	GetByID(ctx context.Context, id string) (job.Job, error)
	ListActiveCursor(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error)
	ListByEmployer(ctx context.Context, employerID string) ([]job.Job, error)
	Update(ctx context.Context, j job.Job) (job.Job, error)
	Delete(ctx context.Context, id string) error
}

type JobsHandler struct {
	repo  JobsStore
	cache *cache.Store
}

func NewJobsHandler(repo JobsStore, cache *cache.Store) *JobsHandler {
	return &JobsHandler{repo: repo, cache: cache}
}

func (h *JobsHandler) CreateJob(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req job.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	j := job.NewFromCreateRequest(userID, req)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.repo.Create(cctx, j); err != nil {
		RespondInternal(ctx, "Could not create job")
		return
	}

	h.invalidateListing(cctx)

	ctx.Set(middlewares.CtxJobID, j.ID)
	ctx.JSON(http.StatusCreated, j)
}

type listJobsResponse struct {
	Items      []job.Job `json:"items"`
	Count      int       `json:"count"`
	NextCursor *string   `json:"nextCursor,omitempty"`
	HasMore    bool      `json:"hasMore"`
}

// ListJobs serves the public listing: active jobs only, newest first,
// keyset-paginated, cached in redis per filter combination.
func (h *JobsHandler) ListJobs(ctx *gin.Context) {
	filter := job.ListFilter{Limit: intQuery(ctx, "limit", 20)}

	if v := ctx.Query("location"); v != "" {
		filter.Location = &v
	}
	if v := ctx.Query("jobType"); v != "" {
		filter.JobType = &v
	}
	if v := ctx.Query("q"); v != "" {
		filter.Query = &v
	}

	var after *utils.JobCursor
	var rawCursor *string

	if v := ctx.Query("cursor"); v != "" {
		cur, err := utils.DecodeJobCursor(v)
		if err != nil {
			RespondBadRequest(ctx, "Invalid cursor", nil)
			return
		}
		after = &cur
		rawCursor = &v
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// query search results are unbounded, cache only the browse paths
	cacheable := filter.Query == nil
	key := utils.BuildJobListCacheKey(filter.Limit, filter.Location, filter.JobType, rawCursor)

	if cacheable {
		if b, err := h.cache.Get(cctx, key); err == nil {
			var cached listJobsResponse
			if json.Unmarshal(b, &cached) == nil {
				RespondJSONWithETag(ctx, http.StatusOK, cached)
				return
			}
		}
	}

	items, nextCursor, hasMore, err := h.repo.ListActiveCursor(cctx, filter, after)

	if err != nil {
		RespondInternal(ctx, "Could not list jobs")
		return
	}

	resp := listJobsResponse{
		Items:      items,
		Count:      len(items),
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}

	if cacheable {
		if b, mErr := json.Marshal(resp); mErr == nil {
			if cErr := h.cache.Set(cctx, key, b); cErr != nil {
				slog.Warn("job listing cache set failed", "err", cErr)
			}
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

func (h *JobsHandler) GetJobByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not fetch job")
		return
	}

	ctx.Set(middlewares.CtxJobID, j.ID)
	ctx.JSON(http.StatusOK, j)
}

func (h *JobsHandler) MyJobs(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.ListByEmployer(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list jobs")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *JobsHandler) UpdateJob(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "job id must be a valid UUID", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req job.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not update job")
		return
	}

	if d := authz.CanPerform(authz.ActionUpdateJob, userID, existing); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	updated, err := h.repo.Update(cctx, existing.Apply(req))

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not update job")
		return
	}

	h.invalidateListing(cctx)

	ctx.Set(middlewares.CtxJobID, updated.ID)
	ctx.JSON(http.StatusOK, updated)
}

func (h *JobsHandler) DeleteJob(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
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

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not delete job")
		return
	}

	if d := authz.CanPerform(authz.ActionDeleteJob, userID, existing); !d.Allowed {
		RespondForbidden(ctx, d.Reason)
		return
	}

	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}

		RespondInternal(ctx, "Could not delete job")
		return
	}

	h.invalidateListing(cctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

func (h *JobsHandler) invalidateListing(ctx context.Context) {
	if err := h.cache.InvalidatePrefix(ctx, utils.JobListCachePrefix); err != nil {
		slog.Warn("job listing cache invalidation failed", "err", err)
	}
}

func intQuery(ctx *gin.Context, name string, fallback int) int {
	v := ctx.Query(name)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}
