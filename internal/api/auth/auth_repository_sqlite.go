package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	database "github.com/yuqiannemo/WanderMind/app/db"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ UserRepo = (*SQLiteUserRepo)(nil)

// SQLiteUserRepo stores accounts in a local SQLite file. Interests are kept
// as a JSON array, timestamps as RFC 3339 text.
type SQLiteUserRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteUserRepo(db *sql.DB, logger *slog.Logger) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db, logger: logger}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, user types.UserAuth) error {
	interests, err := json.Marshal(nonNil(user.Interests))
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, interests, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, string(interests), user.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if database.IsSQLiteUniqueViolation(err) {
			return api.Errorf(api.ErrConflict, "email %s", user.Email)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (types.UserAuth, error) {
	var (
		u                    types.UserAuth
		interests, createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, interests, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &interests, &createdAt)
	if err != nil {
		return types.UserAuth{}, sqlNotFoundOr(err, "querying user by email")
	}
	if err := decodeUserColumns(&u.User, interests, createdAt); err != nil {
		return types.UserAuth{}, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	var (
		u                    types.User
		interests, createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, interests, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &interests, &createdAt)
	if err != nil {
		return types.User{}, sqlNotFoundOr(err, "querying user by id")
	}
	if err := decodeUserColumns(&u, interests, createdAt); err != nil {
		return types.User{}, err
	}
	return u, nil
}

func (r *SQLiteUserRepo) UpdateInterests(ctx context.Context, id string, interests []string) (types.User, error) {
	encoded, err := json.Marshal(nonNil(interests))
	if err != nil {
		return types.User{}, fmt.Errorf("encoding interests: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET interests = ? WHERE id = ?`, string(encoded), id)
	if err != nil {
		return types.User{}, fmt.Errorf("updating user interests: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.User{}, api.Errorf(api.ErrNotFound, "user")
	}
	return r.GetByID(ctx, id)
}

func decodeUserColumns(u *types.User, interests, createdAt string) error {
	if err := json.Unmarshal([]byte(interests), &u.Interests); err != nil {
		return fmt.Errorf("decoding interests: %w", err)
	}
	u.Interests = nonNil(u.Interests)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return fmt.Errorf("decoding created_at: %w", err)
	}
	u.CreatedAt = t
	return nil
}

func sqlNotFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return api.Errorf(api.ErrNotFound, "user")
	}
	return fmt.Errorf("%s: %w", op, err)
}
