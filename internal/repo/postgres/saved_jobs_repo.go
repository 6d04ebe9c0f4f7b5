package postgres

import (
	"context"
	"errors"

	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/domain/savedjob"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SavedJobsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSavedJobsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SavedJobsRepo {
	return &SavedJobsRepo{pool: pool, prom: prom}
}

func (r *SavedJobsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *SavedJobsRepo) Create(ctx context.Context, s savedjob.SavedJob) error {
	err := r.observe("saved_jobs.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO saved_jobs (id, user_id, job_id, created_at)
			 VALUES ($1,$2,$3,$4)`,
			s.ID, s.UserID, s.JobID, s.CreatedAt,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return savedjob.ErrAlreadySaved
		}
		return err
	}

	return nil
}

// ListByUser returns the bookmarks newest first, each joined with its
// job row so the listing page renders without a second round trip.
func (r *SavedJobsRepo) ListByUser(ctx context.Context, userID string) ([]savedjob.SavedJobWithJob, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("saved_jobs.list_by_user", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT s.id, s.user_id, s.job_id, s.created_at, `+prefixedJobColumns("j")+`
			 FROM saved_jobs s
			 JOIN jobs j ON j.id = s.job_id
			 WHERE s.user_id = $1
			 ORDER BY s.created_at DESC, s.id DESC`,
			userID,
		)
		return err
	})

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]savedjob.SavedJobWithJob, 0)

	for rows.Next() {
		var item savedjob.SavedJobWithJob
		var j job.Job

		if scanErr := rows.Scan(
			&item.ID, &item.UserID, &item.JobID, &item.CreatedAt,
			&j.ID, &j.EmployerID, &j.JobTitle, &j.Description, &j.Qualifications, &j.Responsibilities,
			&j.Location, &j.SalaryRange, &j.JobType, &j.Status, &j.CreatedAt, &j.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}

		item.Job = j
		out = append(out, item)
	}

	return out, rows.Err()
}

func (r *SavedJobsRepo) ListJobIDs(ctx context.Context, userID string) ([]string, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("saved_jobs.list_job_ids", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT job_id FROM saved_jobs WHERE user_id = $1 ORDER BY created_at DESC`,
			userID,
		)
		return err
	})

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)

	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *SavedJobsRepo) GetByUserAndJob(ctx context.Context, userID, jobID string) (savedjob.SavedJob, error) {
	var s savedjob.SavedJob

	err := r.observe("saved_jobs.get_by_user_and_job", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, user_id, job_id, created_at FROM saved_jobs WHERE user_id = $1 AND job_id = $2`,
			userID, jobID,
		).Scan(&s.ID, &s.UserID, &s.JobID, &s.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return savedjob.SavedJob{}, savedjob.ErrNotFound
		}
		return savedjob.SavedJob{}, err
	}

	return s, nil
}

func (r *SavedJobsRepo) DeleteByUserAndJob(ctx context.Context, userID, jobID string) error {
	var tag pgconn.CommandTag

	err := r.observe("saved_jobs.delete_by_user_and_job", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`,
			userID, jobID,
		)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return savedjob.ErrNotFound
	}

	return nil
}
