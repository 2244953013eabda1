package plans

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuqiannemo/WanderMind/app/observability/metrics"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ PlanService = (*PlanServiceImpl)(nil)

// PlanService saves routes under a user and reads them back.
type PlanService interface {
	Save(ctx context.Context, userID string, req types.SavePlanRequest) (types.SavedPlan, error)
	List(ctx context.Context, userID string) ([]types.SavedPlan, error)
	Get(ctx context.Context, userID, planID string) (types.SavedPlan, error)
	Delete(ctx context.Context, userID, planID string) error
}

// SessionGetter looks up the planning session a plan is saved from.
type SessionGetter interface {
	Get(ctx context.Context, id string) (types.Session, error)
}

type PlanServiceImpl struct {
	repo     PlanRepo
	sessions SessionGetter
	logger   *slog.Logger
	now      func() time.Time
}

func NewPlanService(repo PlanRepo, sessions SessionGetter, logger *slog.Logger) *PlanServiceImpl {
	return &PlanServiceImpl{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// DefaultTitle is used when a plan is saved without a title.
func DefaultTitle(s types.Session) string {
	return fmt.Sprintf("%s trip (%s to %s)", s.City, s.StartDate, s.EndDate)
}

// Save snapshots the route together with the session's trip parameters.
func (s *PlanServiceImpl) Save(ctx context.Context, userID string, req types.SavePlanRequest) (types.SavedPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "SavePlan", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("session.id", req.SessionID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SavePlan"), slog.String("userID", userID))

	if err := api.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, "Invalid save request")
		return types.SavedPlan{}, err
	}

	sess, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		return types.SavedPlan{}, err
	}

	title := DefaultTitle(sess)
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		title = strings.TrimSpace(*req.Title)
	}

	plan := types.SavedPlan{
		ID:        ulid.Make().String(),
		UserID:    userID,
		City:      sess.City,
		StartDate: sess.StartDate,
		EndDate:   sess.EndDate,
		Interests: sess.Interests,
		SavedAt:   s.now().UTC(),
		Title:     title,
		Route:     req.Route,
	}.Clone()

	if err := s.repo.Create(ctx, plan); err != nil {
		l.ErrorContext(ctx, "Failed to save plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save plan")
		return types.SavedPlan{}, err
	}

	metrics.Inc(ctx, metrics.Get().PlansSavedTotal)
	span.SetAttributes(attribute.String("plan.id", plan.ID))
	span.SetStatus(codes.Ok, "Plan saved")
	l.InfoContext(ctx, "Plan saved", slog.String("planID", plan.ID), slog.Int("stops", len(plan.Route.Stops)))
	return plan, nil
}

func (s *PlanServiceImpl) List(ctx context.Context, userID string) ([]types.SavedPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListPlans", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	plans, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list plans")
		return nil, err
	}
	span.SetAttributes(attribute.Int("plans.count", len(plans)))
	return plans, nil
}

func (s *PlanServiceImpl) Get(ctx context.Context, userID, planID string) (types.SavedPlan, error) {
	return s.repo.Get(ctx, userID, planID)
}

func (s *PlanServiceImpl) Delete(ctx context.Context, userID, planID string) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "DeletePlan", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("plan.id", planID),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, userID, planID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete plan")
		return err
	}
	s.logger.InfoContext(ctx, "Plan deleted", slog.String("planID", planID), slog.String("userID", userID))
	return nil
}
