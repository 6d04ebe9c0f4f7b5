package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/http/handlers"
	"github.com/hiremesh/jobhub/internal/utils"
)

type fakeJobsRepo struct {
	createFn         func(ctx context.Context, j job.Job) error
	getFn            func(ctx context.Context, id string) (job.Job, error)
	listActiveFn     func(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error)
	listByEmployerFn func(ctx context.Context, employerID string) ([]job.Job, error)
	updateFn         func(ctx context.Context, j job.Job) (job.Job, error)
	deleteFn         func(ctx context.Context, id string) error
}

func (f *fakeJobsRepo) Create(ctx context.Context, j job.Job) error {
	if f.createFn != nil {
		return f.createFn(ctx, j)
	}

	return nil
}

func (f *fakeJobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return job.Job{}, job.ErrNotFound
}

func (f *fakeJobsRepo) ListActiveCursor(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx, filter, after)
	}

	return []job.Job{}, nil, false, nil
}

func (f *fakeJobsRepo) ListByEmployer(ctx context.Context, employerID string) ([]job.Job, error) {
	if f.listByEmployerFn != nil {
		return f.listByEmployerFn(ctx, employerID)
	}

	return []job.Job{}, nil
}

func (f *fakeJobsRepo) Update(ctx context.Context, j job.Job) (job.Job, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, j)
	}

	return j, nil
}

func (f *fakeJobsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

func activeJob(employerID string) job.Job {
	now := time.Now().UTC()

	return job.Job{
		ID:          newUUID(),
		EmployerID:  employerID,
		JobTitle:    "Backend Engineer",
		Description: "Build services",
		Location:    "Remote",
		JobType:     job.TypeFullTime,
		Status:      job.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateJobHandler(t *testing.T) {
	employerID := newUUID()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeJobsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"jobTitle": "Backend Engineer",
				"description": "Build services",
				"location": "Remote",
				"jobType": "full-time"
			}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"jobTitle": "x"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{
				"jobTitle": "Backend Engineer",
				"description": "Build services",
				"location": "Remote"
			}`,
			repoSetUp: func(f *fakeJobsRepo) {
				f.createFn = func(ctx context.Context, j job.Job) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewJobsHandler(repo, nil)

			r := setupAuthedRouter(http.MethodPost, "/api/jobs", employerID, "employer", h.CreateJob)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/jobs", tt.body))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				var created job.Job

				if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
					t.Fatalf("decode: %v", err)
				}

				if created.EmployerID != employerID {
					t.Fatalf("got employer %q, want %q", created.EmployerID, employerID)
				}

				if created.Status != job.StatusActive {
					t.Fatalf("new job must start active, got %q", created.Status)
				}
			}
		})
	}
}

func TestListJobsHandler(t *testing.T) {
	j := activeJob(newUUID())

	cursor, err := utils.EncodeJobCursor(j.CreatedAt, j.ID)

	if err != nil {
		t.Fatalf("cursor fixture: %v", err)
	}

	tests := []struct {
		name           string
		target         string
		repoSetUp      func(*fakeJobsRepo)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:   "success",
			target: "/api/jobs?limit=10&location=Remote",
			repoSetUp: func(f *fakeJobsRepo) {
				f.listActiveFn = func(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error) {
					if filter.Limit != 10 {
						t.Fatalf("got limit %d, want 10", filter.Limit)
					}
					if filter.Location == nil || *filter.Location != "Remote" {
						t.Fatalf("location filter not forwarded: %+v", filter)
					}
					return []job.Job{j}, &cursor, true, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "valid_cursor_forwarded",
			target: "/api/jobs?cursor=" + cursor,
			repoSetUp: func(f *fakeJobsRepo) {
				f.listActiveFn = func(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error) {
					if after == nil || after.ID != j.ID {
						t.Fatalf("cursor not forwarded: %+v", after)
					}
					return []job.Job{}, nil, false, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid_cursor",
			target:         "/api/jobs?cursor=%21%21garbage",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid cursor",
		},
		{
			name:   "repo_error",
			target: "/api/jobs",
			repoSetUp: func(f *fakeJobsRepo) {
				f.listActiveFn = func(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) ([]job.Job, *string, bool, error) {
					return nil, nil, false, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewJobsHandler(repo, nil)

			r := setupRouter(http.MethodGet, "/api/jobs", h.ListJobs)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				if got := decodeAPIError(t, w).Error.Message; got != tt.wantMessage {
					t.Fatalf("got message %q, want %q", got, tt.wantMessage)
				}
			}
		})
	}
}

func TestGetJobByIDHandler(t *testing.T) {
	j := activeJob(newUUID())

	tests := []struct {
		name           string
		id             string
		repoSetUp      func(*fakeJobsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			id:   j.ID,
			repoSetUp: func(f *fakeJobsRepo) {
				f.getFn = func(ctx context.Context, id string) (job.Job, error) {
					return j, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid_id",
			id:             "not-a-uuid",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "not_found",
			id:             newUUID(),
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewJobsHandler(repo, nil)

			r := setupRouter(http.MethodGet, "/api/jobs/:id", h.GetJobByID)

			req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+tt.id, nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateJobHandler(t *testing.T) {
	ownerID := newUUID()

	j := activeJob(ownerID)

	body := `{"jobTitle": "Senior Backend Engineer"}`

	tests := []struct {
		name           string
		actingID       string
		repoSetUp      func(*fakeJobsRepo)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:     "owner_updates",
			actingID: ownerID,
			repoSetUp: func(f *fakeJobsRepo) {
				f.getFn = func(ctx context.Context, id string) (job.Job, error) {
					return j, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:     "non_owner_forbidden",
			actingID: newUUID(),
			repoSetUp: func(f *fakeJobsRepo) {
				f.getFn = func(ctx context.Context, id string) (job.Job, error) {
					return j, nil
				}
			},
			wantStatusCode: http.StatusForbidden,
			wantMessage:    "Not authorized to update this job",
		},
		{
			// existence resolves before ownership so a missing job is
			// indistinguishable for owners and strangers
			name:           "missing_job_is_404_not_403",
			actingID:       newUUID(),
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Job not found",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewJobsHandler(repo, nil)

			r := setupAuthedRouter(http.MethodPut, "/api/jobs/:id", tt.actingID, "employer", h.UpdateJob)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/jobs/"+j.ID, body))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				if got := decodeAPIError(t, w).Error.Message; got != tt.wantMessage {
					t.Fatalf("got message %q, want %q", got, tt.wantMessage)
				}
			}
		})
	}
}

func TestDeleteJobHandler(t *testing.T) {
	ownerID := newUUID()

	j := activeJob(ownerID)

	tests := []struct {
		name           string
		actingID       string
		repoSetUp      func(*fakeJobsRepo)
		wantStatusCode int
	}{
		{
			name:     "owner_deletes",
			actingID: ownerID,
			repoSetUp: func(f *fakeJobsRepo) {
				f.getFn = func(ctx context.Context, id string) (job.Job, error) {
					return j, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:     "non_owner_forbidden",
			actingID: newUUID(),
			repoSetUp: func(f *fakeJobsRepo) {
				f.getFn = func(ctx context.Context, id string) (job.Job, error) {
					return j, nil
				}
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "not_found",
			actingID:       ownerID,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewJobsHandler(repo, nil)

			r := setupAuthedRouter(http.MethodDelete, "/api/jobs/:id", tt.actingID, "employer", h.DeleteJob)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodDelete, "/api/jobs/"+j.ID, ""))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var body struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("decoding response body: %v", err)
				}
				if body.Message != "Job deleted successfully" {
					t.Fatalf("got message %q, want %q", body.Message, "Job deleted successfully")
				}
			}
		})
	}
}

func TestMyJobsHandler(t *testing.T) {
	employerID := newUUID()

	repo := &fakeJobsRepo{
		listByEmployerFn: func(ctx context.Context, id string) ([]job.Job, error) {
			if id != employerID {
				t.Fatalf("got employer %q, want %q", id, employerID)
			}
			return []job.Job{activeJob(employerID), activeJob(employerID)}, nil
		},
	}

	h := handlers.NewJobsHandler(repo, nil)

	r := setupAuthedRouter(http.MethodGet, "/api/jobs/my-jobs", employerID, "employer", h.MyJobs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/jobs/my-jobs", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Count != 2 {
		t.Fatalf("got count %d, want 2", resp.Count)
	}
}
