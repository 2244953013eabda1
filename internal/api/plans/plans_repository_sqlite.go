package plans

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

var _ PlanRepo = (*SQLitePlanRepo)(nil)

// SQLitePlanRepo keeps plans in a local SQLite file, with interests and route
// stored as JSON text.
type SQLitePlanRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLitePlanRepo(db *sql.DB, logger *slog.Logger) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: db, logger: logger}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, plan types.SavedPlan) error {
	interests, err := json.Marshal(nonNil(plan.Interests))
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}
	route, err := json.Marshal(plan.Route)
	if err != nil {
		return fmt.Errorf("encoding route: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO saved_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.UserID, plan.City, plan.StartDate, plan.EndDate, string(interests),
		plan.SavedAt.UTC().Format(time.RFC3339Nano), plan.Title, string(route))
	if err != nil {
		if database.IsSQLiteUniqueViolation(err) {
			return api.Errorf(api.ErrConflict, "plan %s", plan.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to insert plan", slog.Any("error", err), slog.String("planID", plan.ID))
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) ListByUser(ctx context.Context, userID string) ([]types.SavedPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM saved_plans WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	out := make([]types.SavedPlan, 0)
	for rows.Next() {
		p, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	// saved_at is text, so order on the decoded times
	sortNewestFirst(out)
	return out, nil
}

func (r *SQLitePlanRepo) Get(ctx context.Context, userID, planID string) (types.SavedPlan, error) {
	p, err := scanSQLitePlan(r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM saved_plans WHERE id = ? AND user_id = ?`, planID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return types.SavedPlan{}, api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	return p, err
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, userID, planID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_plans WHERE id = ? AND user_id = ?`, planID, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n == 0 {
		return api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePlan(row rowScanner) (types.SavedPlan, error) {
	var (
		p                         types.SavedPlan
		interests, savedAt, route string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.City, &p.StartDate, &p.EndDate, &interests, &savedAt, &p.Title, &route)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SavedPlan{}, err
		}
		return types.SavedPlan{}, fmt.Errorf("scanning plan: %w", err)
	}
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return types.SavedPlan{}, fmt.Errorf("decoding interests of plan %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(route), &p.Route); err != nil {
		return types.SavedPlan{}, fmt.Errorf("decoding route of plan %s: %w", p.ID, err)
	}
	if p.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return types.SavedPlan{}, fmt.Errorf("decoding saved_at of plan %s: %w", p.ID, err)
	}
	p.Interests = nonNil(p.Interests)
	return p, nil
}
