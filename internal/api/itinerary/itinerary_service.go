package itinerary

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
	"google.golang.org/genai"

	"github.com/yuqiannemo/WanderMind/app/observability/metrics"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/geocode"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// Ensure implementation satisfies the interface
var _ ItineraryService = (*ItineraryServiceImpl)(nil)

// ContentGenerator is a single-shot text completion backend.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

// SessionGetter looks up planning sessions.
type SessionGetter interface {
	Get(ctx context.Context, id string) (types.Session, error)
}

// AttractionLocator attaches coordinates to attractions in place.
type AttractionLocator interface {
	LocateAttractions(ctx context.Context, city string, center geocode.Point, attractions []types.Attraction)
}

// ItineraryService covers the three model-backed planning steps.
type ItineraryService interface {
	Recommend(ctx context.Context, sessionID string) ([]types.Attraction, error)
	GenerateRoute(ctx context.Context, sessionID string, attractions []types.Attraction) (types.Route, error)
	Refine(ctx context.Context, sessionID string, current types.Route, message string) (types.Route, error)
}

type ItineraryServiceImpl struct {
	sessions  SessionGetter
	generator ContentGenerator
	locator   AttractionLocator
	logger    *slog.Logger
}

func NewItineraryService(sessions SessionGetter, generator ContentGenerator, locator AttractionLocator, logger *slog.Logger) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{
		sessions:  sessions,
		generator: generator,
		locator:   locator,
		logger:    logger,
	}
}

// Recommend asks the model for attractions matching the session. Nothing is
// stored; every call produces fresh ids.
func (s *ItineraryServiceImpl) Recommend(ctx context.Context, sessionID string) (attractions []types.Attraction, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Recommend"), slog.String("sessionID", sessionID))
	defer traceOutcome(ctx, span, "recommend", time.Now(), &err)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.generate(ctx, l, recommendPrompt(sess))
	if err != nil {
		return nil, err
	}
	attractions, err = parseAttractions(reply)
	if err != nil {
		l.WarnContext(ctx, "Unusable recommendation reply", slog.Any("error", err), slog.String("reply", truncate(reply)))
		return nil, err
	}

	for i := range attractions {
		attractions[i].ID = uuid.NewString()
	}
	s.locator.LocateAttractions(ctx, sess.City, cityCenter(sess), attractions)

	l.InfoContext(ctx, "Attractions recommended", slog.Int("count", len(attractions)))
	return attractions, nil
}

// GenerateRoute asks the model to schedule the selected attractions.
func (s *ItineraryServiceImpl) GenerateRoute(ctx context.Context, sessionID string, attractions []types.Attraction) (route types.Route, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateRoute", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("attractions.count", len(attractions)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateRoute"), slog.String("sessionID", sessionID))
	defer traceOutcome(ctx, span, "route", time.Now(), &err)

	pool := prepareSelection(attractions)
	if err = api.ValidateStruct(types.RouteRequest{SessionID: sessionID, Attractions: pool}); err != nil {
		return types.Route{}, err
	}

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return types.Route{}, err
	}

	reply, err := s.generate(ctx, l, routePrompt(sess, pool))
	if err != nil {
		return types.Route{}, err
	}
	route, err = s.toRoute(reply, pool, defaultRouteSummary, true)
	if err != nil {
		l.WarnContext(ctx, "Unusable route reply", slog.Any("error", err), slog.String("reply", truncate(reply)))
		return types.Route{}, err
	}

	l.InfoContext(ctx, "Route generated", slog.Int("stops", len(route.Stops)))
	return route, nil
}

// Refine rewrites current according to message. current is never modified;
// on failure the caller keeps its previous route.
func (s *ItineraryServiceImpl) Refine(ctx context.Context, sessionID string, current types.Route, message string) (route types.Route, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Refine", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("stops.count", len(current.Stops)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Refine"), slog.String("sessionID", sessionID))
	defer traceOutcome(ctx, span, "refine", time.Now(), &err)

	working := current.Clone()
	message = strings.TrimSpace(message)
	if err = api.ValidateStruct(types.RefineRequest{SessionID: sessionID, Message: message, CurrentRoute: working}); err != nil {
		return types.Route{}, err
	}

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return types.Route{}, err
	}

	pool := make([]types.Attraction, 0, len(working.Stops))
	for i := range working.Stops {
		pool = append(pool, working.Stops[i].Attraction)
	}
	pool = prepareSelection(pool)
	// the prompt must show the same ids the pool will be matched against
	for i := range working.Stops {
		working.Stops[i].Attraction.ID = idFor(pool, working.Stops[i].Attraction)
	}

	reply, err := s.generate(ctx, l, refinePrompt(sess, working, message))
	if err != nil {
		return types.Route{}, err
	}
	route, err = s.toRoute(reply, pool, defaultRefineSummary, false)
	if err != nil {
		l.WarnContext(ctx, "Unusable refine reply", slog.Any("error", err), slog.String("reply", truncate(reply)))
		return types.Route{}, err
	}

	l.InfoContext(ctx, "Route refined", slog.Int("stops", len(route.Stops)))
	return route, nil
}

func (s *ItineraryServiceImpl) session(ctx context.Context, id string) (types.Session, error) {
	if strings.TrimSpace(id) == "" {
		return types.Session{}, api.NewValidationError("session_id", "is required")
	}
	return s.sessions.Get(ctx, id)
}

func (s *ItineraryServiceImpl) generate(ctx context.Context, l *slog.Logger, prompt string) (string, error) {
	reply, err := s.generator.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		return "", fmt.Errorf("model call: %v: %w", err, api.ErrUpstream)
	}
	return reply, nil
}

func (s *ItineraryServiceImpl) toRoute(reply string, pool []types.Attraction, defaultSummary string, requireAll bool) (types.Route, error) {
	plan, err := parseRoutePlan(reply)
	if err != nil {
		return types.Route{}, err
	}
	return buildRoute(plan, pool, defaultSummary, requireAll)
}

// prepareSelection copies attractions, clears the client-only selected flag,
// assigns missing ids and drops repeats (same id, or same name when no id).
func prepareSelection(in []types.Attraction) []types.Attraction {
	out := make([]types.Attraction, 0, len(in))
	seenIDs := make(map[string]struct{}, len(in))
	seenNames := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = a.Clone()
		a.Selected = false
		a.Name = strings.TrimSpace(a.Name)
		name := strings.ToLower(a.Name)

		if a.ID != "" {
			if _, dup := seenIDs[a.ID]; dup {
				continue
			}
		} else {
			if _, dup := seenNames[name]; dup && name != "" {
				continue
			}
			a.ID = uuid.NewString()
		}
		seenIDs[a.ID] = struct{}{}
		seenNames[name] = struct{}{}
		out = append(out, a)
	}
	return out
}

// idFor finds the pool id assigned to a.
func idFor(pool []types.Attraction, a types.Attraction) string {
	if a.ID != "" {
		return a.ID
	}
	name := strings.ToLower(strings.TrimSpace(a.Name))
	for _, p := range pool {
		if strings.ToLower(p.Name) == name {
			return p.ID
		}
	}
	return ""
}

func cityCenter(sess types.Session) geocode.Point {
	if len(sess.CityCoordinates) == 2 {
		return geocode.Point{Lat: sess.CityCoordinates[0], Lon: sess.CityCoordinates[1]}
	}
	if p, ok := geocode.FallbackCity(sess.City); ok {
		return p
	}
	return geocode.DefaultCenter
}

func traceOutcome(ctx context.Context, span trace.Span, operation string, start time.Time, errp *error) {
	err := *errp
	metrics.Get().RecordGateway(ctx, operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
		return
	}
	span.SetStatus(codes.Ok, operation+" succeeded")
}

func truncate(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
