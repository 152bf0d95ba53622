package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/courier/internal/domain"
	"github.com/vedran77/courier/internal/repository"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, first_name, last_name, phone, joined_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		user.Username, user.PasswordHash, user.FirstName,
		user.LastName, user.Phone, user.JoinedAt, user.LastLoginAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at
		FROM users WHERE username = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.Username, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Phone, &u.JoinedAt, &u.LastLoginAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, username string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE username = $1`, username, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.UserSummary, error) {
	query := `
		SELECT username, first_name, last_name, phone
		FROM users
		ORDER BY last_name, username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
