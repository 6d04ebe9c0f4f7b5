package postgres

import (
	"context"
	"errors"

	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	err := r.observe("users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, fullname, email, password_hash, phone, role, avatar_url, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Fullname, u.Email, u.PasswordHash, u.Phone, u.Role, u.AvatarURL, u.CreatedAt, u.UpdatedAt,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, fullname, email, password_hash, phone, role, avatar_url, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(&u.ID, &u.Fullname, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, fullname, email, password_hash, phone, role, avatar_url, created_at, updated_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Fullname, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// UpdateContact touches the profile-editable identity fields only; email,
// role and password hash are never writable through this path.
func (r *UsersRepo) UpdateContact(ctx context.Context, id string, fullname, phone, avatarURL *string) (user.User, error) {
	var u user.User

	err := r.observe("users.update_contact", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
			 SET fullname   = COALESCE($2, fullname),
			     phone      = COALESCE($3, phone),
			     avatar_url = COALESCE($4, avatar_url),
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING id, fullname, email, password_hash, phone, role, avatar_url, created_at, updated_at`,
			id, fullname, phone, avatarURL,
		).Scan(&u.ID, &u.Fullname, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
