package postgres

import (
	"context"
	"errors"

	"github.com/hiremesh/jobhub/internal/domain/application"
	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, job_id, seeker_id, employer_id, status, cover_letter, resume_url, notes, created_at, updated_at`

type ApplicationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewApplicationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ApplicationsRepo {
	return &ApplicationsRepo{pool: pool, prom: prom}
}

func (r *ApplicationsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanApplication(row pgx.Row, a *application.Application) error {
	return row.Scan(
		&a.ID, &a.JobID, &a.SeekerID, &a.EmployerID, &a.Status,
		&a.CoverLetter, &a.ResumeURL, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *ApplicationsRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, pgx.TxOptions{})
}

// CreateTx inserts an application inside an existing transaction. The
// duplicate pre-check only produces a friendlier error on the common
// path; the unique index on (job_id, seeker_id) is the actual guard, so
// concurrent duplicate applies lose with ErrAlreadyApplied.
func (r *ApplicationsRepo) CreateTx(ctx context.Context, tx pgx.Tx, a application.Application) (err error) {
	var exists bool

	err = r.observe("applications.create_tx.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE job_id = $1 AND seeker_id = $2
		)`, a.JobID, a.SeekerID).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = application.ErrAlreadyApplied
		return
	}

	err = r.observe("applications.create_tx.insert", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO applications (id, job_id, seeker_id, employer_id, status, cover_letter, resume_url, notes, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			a.ID, a.JobID, a.SeekerID, a.EmployerID, a.Status, a.CoverLetter, a.ResumeURL, a.Notes, a.CreatedAt, a.UpdatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "applications_job_seeker_uniq" {
			err = application.ErrAlreadyApplied
			return
		}
		return
	}

	return
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (application.Application, error) {
	var a application.Application

	err := r.observe("applications.get_by_id", func() error {
		return scanApplication(r.pool.QueryRow(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id), &a)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}

	return a, nil
}

func (r *ApplicationsRepo) GetForJobAndSeeker(ctx context.Context, jobID, seekerID string) (application.Application, error) {
	var a application.Application

	err := r.observe("applications.get_for_job_and_seeker", func() error {
		return scanApplication(r.pool.QueryRow(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND seeker_id = $2`,
			jobID, seekerID), &a)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}

	return a, nil
}

func (r *ApplicationsRepo) listBy(ctx context.Context, op, where string, arg string) ([]application.Application, error) {
	var rows pgx.Rows
	var err error

	err = r.observe(op, func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE `+where+` = $1 ORDER BY created_at DESC, id DESC`,
			arg,
		)
		return err
	})

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)

	for rows.Next() {
		var a application.Application
		if scanErr := scanApplication(rows, &a); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *ApplicationsRepo) ListBySeeker(ctx context.Context, seekerID string) ([]application.Application, error) {
	return r.listBy(ctx, "applications.list_by_seeker", "seeker_id", seekerID)
}

func (r *ApplicationsRepo) ListByEmployer(ctx context.Context, employerID string) ([]application.Application, error) {
	return r.listBy(ctx, "applications.list_by_employer", "employer_id", employerID)
}

// ListByJob verifies the job exists when the result is empty so callers
// can distinguish "no applications" from "no such job".
func (r *ApplicationsRepo) ListByJob(ctx context.Context, jobID string) ([]application.Application, error) {
	apps, err := r.listBy(ctx, "applications.list_by_job", "job_id", jobID)

	if err != nil {
		return nil, err
	}

	if len(apps) == 0 {
		var dummy string

		err = r.observe("applications.list_by_job.check_job_exists", func() error {
			return r.pool.QueryRow(ctx, `SELECT id FROM jobs WHERE id = $1`, jobID).Scan(&dummy)
		})

		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrNotFound
		}

		if err != nil {
			return nil, err
		}
	}

	return apps, nil
}

func (r *ApplicationsRepo) UpdateStatus(ctx context.Context, id, status string, notes *string) (application.Application, error) {
	var a application.Application

	err := r.observe("applications.update_status", func() error {
		return scanApplication(r.pool.QueryRow(ctx,
			`UPDATE applications
			 SET status = $2,
			     notes = COALESCE($3, notes),
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+applicationColumns,
			id, status, notes), &a)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}

	return a, nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("applications.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}

	return nil
}
