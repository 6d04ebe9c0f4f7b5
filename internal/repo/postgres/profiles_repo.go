package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hiremesh/jobhub/internal/domain/profile"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{pool: pool, prom: prom}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProfilesRepo) GetSeeker(ctx context.Context, userID string) (profile.SeekerProfile, error) {
	var p profile.SeekerProfile
	var experiences []byte

	err := r.observe("profiles.get_seeker", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT user_id, location, headline, resume_url, degree, institution,
				field_of_study, graduation_year, cgpa, experiences, created_at, updated_at
			 FROM seeker_profiles WHERE user_id = $1`,
			userID,
		).Scan(
			&p.UserID, &p.Location, &p.Headline, &p.ResumeURL, &p.Degree, &p.Institution,
			&p.FieldOfStudy, &p.GraduationYear, &p.CGPA, &experiences, &p.CreatedAt, &p.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.SeekerProfile{}, profile.ErrNotFound
		}
		return profile.SeekerProfile{}, err
	}

	if len(experiences) > 0 {
		if err := json.Unmarshal(experiences, &p.Experiences); err != nil {
			return profile.SeekerProfile{}, err
		}
	}

	return p, nil
}

func (r *ProfilesRepo) UpsertSeeker(ctx context.Context, p profile.SeekerProfile) error {
	experiences, err := json.Marshal(p.Experiences)
	if err != nil {
		return err
	}

	return r.observe("profiles.upsert_seeker", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO seeker_profiles (user_id, location, headline, resume_url, degree, institution,
				field_of_study, graduation_year, cgpa, experiences, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
			 ON CONFLICT (user_id) DO UPDATE SET
				location = EXCLUDED.location,
				headline = EXCLUDED.headline,
				resume_url = EXCLUDED.resume_url,
				degree = EXCLUDED.degree,
				institution = EXCLUDED.institution,
				field_of_study = EXCLUDED.field_of_study,
				graduation_year = EXCLUDED.graduation_year,
				cgpa = EXCLUDED.cgpa,
				experiences = EXCLUDED.experiences,
				updated_at = NOW()`,
			p.UserID, p.Location, p.Headline, p.ResumeURL, p.Degree, p.Institution,
			p.FieldOfStudy, p.GraduationYear, p.CGPA, experiences,
		)
		return e
	})
}

// ResumeURL is the snapshot read used at apply time.
func (r *ProfilesRepo) ResumeURL(ctx context.Context, userID string) (string, error) {
	var url string

	err := r.observe("profiles.resume_url", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT resume_url FROM seeker_profiles WHERE user_id = $1`, userID,
		).Scan(&url)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", profile.ErrNotFound
		}
		return "", err
	}

	return url, nil
}

func (r *ProfilesRepo) GetEmployer(ctx context.Context, userID string) (profile.EmployerProfile, error) {
	var p profile.EmployerProfile

	err := r.observe("profiles.get_employer", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT user_id, company_name, company_website, company_description,
				contact_phone, contact_email, created_at, updated_at
			 FROM employer_profiles WHERE user_id = $1`,
			userID,
		).Scan(
			&p.UserID, &p.CompanyName, &p.CompanyWebsite, &p.CompanyDescription,
			&p.ContactPhone, &p.ContactEmail, &p.CreatedAt, &p.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.EmployerProfile{}, profile.ErrNotFound
		}
		return profile.EmployerProfile{}, err
	}

	return p, nil
}

func (r *ProfilesRepo) UpsertEmployer(ctx context.Context, p profile.EmployerProfile) error {
	return r.observe("profiles.upsert_employer", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO employer_profiles (user_id, company_name, company_website,
				company_description, contact_phone, contact_email, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
			 ON CONFLICT (user_id) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				company_website = EXCLUDED.company_website,
				company_description = EXCLUDED.company_description,
				contact_phone = EXCLUDED.contact_phone,
				contact_email = EXCLUDED.contact_email,
				updated_at = NOW()`,
			p.UserID, p.CompanyName, p.CompanyWebsite, p.CompanyDescription,
			p.ContactPhone, p.ContactEmail,
		)
		return e
	})
}
