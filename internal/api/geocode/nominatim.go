package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/yuqiannemo/WanderMind/config"
)

// ErrNoResult is returned when the geocoder knows nothing about a query.
var ErrNoResult = errors.New("no geocoding result")

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a free-text place query to a point.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

var _ Geocoder = (*NominatimClient)(nil)

// NominatimClient queries an OpenStreetMap Nominatim instance. Requests are
// throttled process-wide and answers are cached by normalised query.
type NominatimClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	cache     *cache.Cache
	logger    *slog.Logger
}

// NewNominatimClient builds a client from configuration.
func NewNominatimClient(cfg config.GeocodingConfig, logger *slog.Logger) *NominatimClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		cache:     cache.New(24*time.Hour, time.Hour),
		logger:    logger,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best match for query.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (Point, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return Point{}, ErrNoResult
	}
	if p, ok := c.cache.Get(key); ok {
		return p.(Point), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Point{}, fmt.Errorf("waiting for geocoder slot: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("building geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Point{}, fmt.Errorf("decoding geocode response: %w", err)
	}
	if len(places) == 0 {
		return Point{}, ErrNoResult
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if err := errors.Join(errLat, errLon); err != nil {
		return Point{}, fmt.Errorf("parsing geocode coordinates: %w", err)
	}

	p := Point{Lat: lat, Lon: lon}
	c.cache.SetDefault(key, p)
	c.logger.DebugContext(ctx, "Geocoded", slog.String("query", query), slog.Float64("lat", lat), slog.Float64("lon", lon))
	return p, nil
}
