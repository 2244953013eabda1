package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/yuqiannemo/WanderMind/app/db"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	db     database.DBTX
	logger *slog.Logger
}

func NewPostgresUserRepo(db database.DBTX, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{db: db, logger: logger}
}

func (r *PostgresUserRepo) Create(ctx context.Context, user types.UserAuth) error {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", user.ID, err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, interests, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, user.Email, user.Name, user.PasswordHash, nonNil(user.Interests), user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return api.Errorf(api.ErrConflict, "email %s", user.Email)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (types.UserAuth, error) {
	var (
		u  types.UserAuth
		id uuid.UUID
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, interests, created_at FROM users WHERE email = $1`,
		email).Scan(&id, &u.Email, &u.Name, &u.PasswordHash, &u.Interests, &u.CreatedAt)
	if err != nil {
		return types.UserAuth{}, notFoundOr(err, "querying user by email")
	}
	u.ID = id.String()
	u.Interests = nonNil(u.Interests)
	return u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return types.User{}, api.Errorf(api.ErrNotFound, "user")
	}
	return r.scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, name, interests, created_at FROM users WHERE id = $1`, uid), "querying user by id")
}

func (r *PostgresUserRepo) UpdateInterests(ctx context.Context, id string, interests []string) (types.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return types.User{}, api.Errorf(api.ErrNotFound, "user")
	}
	return r.scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET interests = $2 WHERE id = $1 RETURNING id, email, name, interests, created_at`,
		uid, nonNil(interests)), "updating user interests")
}

func (r *PostgresUserRepo) scanUser(row pgx.Row, op string) (types.User, error) {
	var (
		u         types.User
		id        uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &u.Email, &u.Name, &u.Interests, &createdAt); err != nil {
		return types.User{}, notFoundOr(err, op)
	}
	u.ID = id.String()
	u.CreatedAt = createdAt
	u.Interests = nonNil(u.Interests)
	return u, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Errorf(api.ErrNotFound, "user")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
