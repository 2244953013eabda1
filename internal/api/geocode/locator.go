package geocode

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yuqiannemo/WanderMind/internal/types"
)

// Locator attaches best-effort coordinates. It never fails: anything the
// geocoder cannot resolve falls back to the city table or a jittered center.
type Locator struct {
	geocoder    Geocoder
	concurrency int
	budget      time.Duration
	logger      *slog.Logger
}

// NewLocator builds a Locator. A nil geocoder means offline mode. A positive
// budget bounds each LocateAttractions batch; lookups still pending when it
// runs out fall back to the jittered center.
func NewLocator(geocoder Geocoder, concurrency int, budget time.Duration, logger *slog.Logger) *Locator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Locator{geocoder: geocoder, concurrency: concurrency, budget: budget, logger: logger}
}

// CityCenter resolves a city to its center.
func (l *Locator) CityCenter(ctx context.Context, city string) Point {
	if l.geocoder != nil {
		p, err := l.geocoder.Geocode(ctx, city)
		if err == nil {
			return p
		}
		l.logger.WarnContext(ctx, "City geocoding failed, using fallback table",
			slog.String("city", city), slog.Any("error", err))
	}
	if p, ok := FallbackCity(city); ok {
		return p
	}
	return DefaultCenter
}

// LocateAttractions sets coordinates on every attraction in place. Lookups for
// "<name>, <city>" run concurrently; misses get a jittered city center.
func (l *Locator) LocateAttractions(ctx context.Context, city string, center Point, attractions []types.Attraction) {
	ctx, span := otel.Tracer("Locator").Start(ctx, "LocateAttractions", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Int("attractions.count", len(attractions)),
	))
	defer span.End()

	lookupCtx := ctx
	if l.budget > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, l.budget)
		defer cancel()
	}

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i := range attractions {
		a := &attractions[i]
		g.Go(func() error {
			p := Jitter(center, a.Name)
			if l.geocoder != nil && lookupCtx.Err() == nil {
				found, err := l.geocoder.Geocode(lookupCtx, a.Name+", "+city)
				if err == nil {
					p = found
				} else {
					l.logger.DebugContext(ctx, "Attraction geocoding failed, using jittered center",
						slog.String("attraction", a.Name), slog.Any("error", err))
				}
			}
			a.SetCoordinates(p.Lat, p.Lon)
			return nil
		})
	}
	_ = g.Wait()
}
