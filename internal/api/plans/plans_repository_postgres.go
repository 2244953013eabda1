package plans

import (
	"context"
	"encoding/json"
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

var _ PlanRepo = (*PostgresPlanRepo)(nil)

const planColumns = `id, user_id, city, start_date, end_date, interests, saved_at, title, route`

type PostgresPlanRepo struct {
	db     database.DBTX
	logger *slog.Logger
}

func NewPostgresPlanRepo(db database.DBTX, logger *slog.Logger) *PostgresPlanRepo {
	return &PostgresPlanRepo{db: db, logger: logger}
}

func (r *PostgresPlanRepo) Create(ctx context.Context, plan types.SavedPlan) error {
	uid, err := uuid.Parse(plan.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", plan.UserID, err)
	}
	route, err := json.Marshal(plan.Route)
	if err != nil {
		return fmt.Errorf("encoding route: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO saved_plans (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		plan.ID, uid, plan.City, plan.StartDate, plan.EndDate, nonNil(plan.Interests), plan.SavedAt, plan.Title, route)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return api.Errorf(api.ErrConflict, "plan %s", plan.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to insert plan", slog.Any("error", err), slog.String("planID", plan.ID))
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) ListByUser(ctx context.Context, userID string) ([]types.SavedPlan, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return []types.SavedPlan{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+planColumns+` FROM saved_plans WHERE user_id = $1 ORDER BY saved_at DESC, id DESC`, uid)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	out := make([]types.SavedPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return out, nil
}

func (r *PostgresPlanRepo) Get(ctx context.Context, userID, planID string) (types.SavedPlan, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return types.SavedPlan{}, api.Errorf(api.ErrNotFound, "plan %s", planID)
	}

	p, err := scanPlan(r.db.QueryRow(ctx,
		`SELECT `+planColumns+` FROM saved_plans WHERE id = $1 AND user_id = $2`, planID, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return types.SavedPlan{}, api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	return p, err
}

func (r *PostgresPlanRepo) Delete(ctx context.Context, userID, planID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return api.Errorf(api.ErrNotFound, "plan %s", planID)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM saved_plans WHERE id = $1 AND user_id = $2`, planID, uid)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	return nil
}

func scanPlan(row pgx.Row) (types.SavedPlan, error) {
	var (
		p       types.SavedPlan
		uid     uuid.UUID
		savedAt time.Time
		route   []byte
	)
	err := row.Scan(&p.ID, &uid, &p.City, &p.StartDate, &p.EndDate, &p.Interests, &savedAt, &p.Title, &route)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.SavedPlan{}, err
		}
		return types.SavedPlan{}, fmt.Errorf("scanning plan: %w", err)
	}
	if err := json.Unmarshal(route, &p.Route); err != nil {
		return types.SavedPlan{}, fmt.Errorf("decoding route of plan %s: %w", p.ID, err)
	}
	p.UserID = uid.String()
	p.SavedAt = savedAt
	p.Interests = nonNil(p.Interests)
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
