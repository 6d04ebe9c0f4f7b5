package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiremesh/jobhub/internal/domain/job"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/hiremesh/jobhub/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, employer_id, job_title, description, qualifications, responsibilities,
	location, salary_range, job_type, status, created_at, updated_at`

// prefixedJobColumns qualifies every job column with a table alias for
// use in join queries.
func prefixedJobColumns(alias string) string {
	cols := strings.Split(jobColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type JobsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewJobsRepo(pool *pgxpool.Pool, prom *observability.Prom) *JobsRepo {
	return &JobsRepo{pool: pool, prom: prom}
}

func (r *JobsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanJob(row pgx.Row, j *job.Job) error {
	return row.Scan(
		&j.ID, &j.EmployerID, &j.JobTitle, &j.Description, &j.Qualifications, &j.Responsibilities,
		&j.Location, &j.SalaryRange, &j.JobType, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	)
}

func (r *JobsRepo) Create(ctx context.Context, j job.Job) error {
	return r.observe("jobs.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO jobs (id, employer_id, job_title, description, qualifications, responsibilities,
				location, salary_range, job_type, status, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			j.ID, j.EmployerID, j.JobTitle, j.Description, j.Qualifications, j.Responsibilities,
			j.Location, j.SalaryRange, j.JobType, j.Status, j.CreatedAt, j.UpdatedAt,
		)
		return err
	})
}

func (r *JobsRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	var j job.Job

	err := r.observe("jobs.get_by_id", func() error {
		return scanJob(r.pool.QueryRow(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id), &j)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	return j, nil
}

// ListActiveCursor pages the public listing newest first. The extra row
// beyond limit decides hasMore.
func (r *JobsRepo) ListActiveCursor(ctx context.Context, filter job.ListFilter, after *utils.JobCursor) (items []job.Job, nextCursor *string, hasMore bool, err error) {
	limit := filter.Limit

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := `SELECT ` + jobColumns + ` FROM jobs WHERE status = 'active'`
	args := []interface{}{}
	pos := 1

	if filter.Location != nil {
		q += fmt.Sprintf(` AND location ILIKE '%%' || $%d || '%%'`, pos)
		args = append(args, *filter.Location)
		pos++
	}

	if filter.JobType != nil {
		q += fmt.Sprintf(` AND job_type = $%d`, pos)
		args = append(args, *filter.JobType)
		pos++
	}

	if filter.Query != nil {
		q += fmt.Sprintf(` AND (job_title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')`, pos, pos)
		args = append(args, *filter.Query)
		pos++
	}

	if after != nil {
		q += fmt.Sprintf(` AND (created_at, id) < ($%d, $%d)`, pos, pos+1)
		args = append(args, after.CreatedAt, after.ID)
		pos += 2
	}

	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, pos)
	args = append(args, limit+1)

	var rows pgx.Rows

	err = r.observe("jobs.list_active_cursor", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, q, args...)
		return qerr
	})

	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()

	out := make([]job.Job, 0, limit)

	for rows.Next() {
		var j job.Job
		if scanErr := scanJob(rows, &j); scanErr != nil {
			return nil, nil, false, scanErr
		}
		out = append(out, j)
	}
	if rows.Err() != nil {
		return nil, nil, false, rows.Err()
	}

	if len(out) > limit {
		hasMore = true
		out = out[:limit]
		last := out[len(out)-1]
		cur, encErr := utils.EncodeJobCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, nil, false, encErr
		}
		nextCursor = &cur
	}

	return out, nextCursor, hasMore, nil
}

func (r *JobsRepo) ListByEmployer(ctx context.Context, employerID string) ([]job.Job, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("jobs.list_by_employer", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC, id DESC`,
			employerID,
		)
		return err
	})

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)

	for rows.Next() {
		var j job.Job
		if scanErr := scanJob(rows, &j); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, j)
	}

	return out, rows.Err()
}

func (r *JobsRepo) Update(ctx context.Context, j job.Job) (job.Job, error) {
	var out job.Job

	err := r.observe("jobs.update", func() error {
		return scanJob(r.pool.QueryRow(ctx,
			`UPDATE jobs
			 SET job_title = $2,
			     description = $3,
			     qualifications = $4,
			     responsibilities = $5,
			     location = $6,
			     salary_range = $7,
			     job_type = $8,
			     status = $9,
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+jobColumns,
			j.ID, j.JobTitle, j.Description, j.Qualifications, j.Responsibilities,
			j.Location, j.SalaryRange, j.JobType, j.Status,
		), &out)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}

	return out, nil
}

func (r *JobsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("jobs.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return job.ErrNotFound
	}

	return nil
}
