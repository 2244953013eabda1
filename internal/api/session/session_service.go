package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuqiannemo/WanderMind/app/observability/metrics"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/geocode"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// Ensure implementation satisfies the interface
var _ SessionService = (*SessionServiceImpl)(nil)

// SessionService creates and looks up planning sessions.
type SessionService interface {
	Create(ctx context.Context, req types.InitRequest) (types.Session, error)
	Get(ctx context.Context, id string) (types.Session, error)
}

// CityLocator resolves a city to coordinates and never fails.
type CityLocator interface {
	CityCenter(ctx context.Context, city string) geocode.Point
}

type SessionServiceImpl struct {
	store   Store
	locator CityLocator
	logger  *slog.Logger
	now     func() time.Time
}

func NewSessionService(store Store, locator CityLocator, logger *slog.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		store:   store,
		locator: locator,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates req and stores a new session for it.
func (s *SessionServiceImpl) Create(ctx context.Context, req types.InitRequest) (types.Session, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "CreateSession", trace.WithAttributes(
		attribute.String("city", req.City),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateSession"), slog.String("city", req.City))

	req = normalise(req)
	if err := validateInit(req); err != nil {
		span.SetStatus(codes.Error, "Invalid session request")
		return types.Session{}, err
	}

	center := s.locator.CityCenter(ctx, req.City)
	sess := types.Session{
		ID:              uuid.NewString(),
		City:            req.City,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Interests:       req.Interests,
		CityCoordinates: []float64{center.Lat, center.Lon},
		CreatedAt:       s.now().UTC(),
	}

	if err := s.store.Put(ctx, sess); err != nil {
		l.ErrorContext(ctx, "Failed to store session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store session")
		return types.Session{}, fmt.Errorf("storing session: %w", err)
	}

	metrics.Inc(ctx, metrics.Get().SessionsCreatedTotal)
	l.InfoContext(ctx, "Session created", slog.String("sessionID", sess.ID), slog.Int("days", sess.Days()))
	span.SetStatus(codes.Ok, "Session created")
	return sess, nil
}

// Get returns the session or an ErrNotFound error.
func (s *SessionServiceImpl) Get(ctx context.Context, id string) (types.Session, error) {
	if strings.TrimSpace(id) == "" {
		return types.Session{}, api.NewValidationError("session_id", "is required")
	}
	return s.store.Get(ctx, id)
}

// normalise trims every field and de-duplicates interests case-insensitively,
// keeping the first spelling and the original order.
func normalise(req types.InitRequest) types.InitRequest {
	req.City = strings.TrimSpace(req.City)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)

	seen := make(map[string]struct{}, len(req.Interests))
	interests := make([]string, 0, len(req.Interests))
	for _, in := range req.Interests {
		in = strings.TrimSpace(in)
		key := strings.ToLower(in)
		if in == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		interests = append(interests, in)
	}
	if len(interests) == 0 {
		interests = nil
	}
	req.Interests = interests
	return req
}

func validateInit(req types.InitRequest) error {
	if err := api.ValidateStruct(req); err != nil {
		return err
	}
	start, _ := time.Parse(types.DateLayout, req.StartDate)
	end, _ := time.Parse(types.DateLayout, req.EndDate)
	if end.Before(start) {
		return api.NewValidationError("endDate", "must not be before startDate")
	}
	return nil
}
