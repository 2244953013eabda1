package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/geocode"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// MockCityLocator is a mock implementation of CityLocator
type MockCityLocator struct {
	mock.Mock
}

func (m *MockCityLocator) CityCenter(ctx context.Context, city string) geocode.Point {
	args := m.Called(ctx, city)
	return args.Get(0).(geocode.Point)
}

func newTestService(t *testing.T) (*SessionServiceImpl, *MemoryStore, *MockCityLocator) {
	t.Helper()
	store := NewMemoryStore()
	loc := new(MockCityLocator)
	svc := NewSessionService(store, loc, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, loc
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)

	s := types.Session{ID: "a", City: "Paris", Interests: []string{"Food"}}
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	// returned values are copies
	got.Interests[0] = "Mutated"
	again, _ := store.Get(ctx, "a")
	assert.Equal(t, "Food", again.Interests[0])

	store.Reset()
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = store.Put(ctx, types.Session{ID: id, City: "Rome"})
			_, _ = store.Get(ctx, id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 26, store.Len())
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, store, loc := newTestService(t)
		loc.On("CityCenter", mock.Anything, "Paris").Return(geocode.Point{Lat: 48.85, Lon: 2.35})

		sess, err := svc.Create(ctx, types.InitRequest{
			City:      "  Paris ",
			StartDate: "2025-11-01",
			EndDate:   "2025-11-03",
			Interests: []string{"Museums", " museums", "Food", ""},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, "Paris", sess.City)
		assert.Equal(t, []string{"Museums", "Food"}, sess.Interests)
		assert.Equal(t, []float64{48.85, 2.35}, sess.CityCoordinates)
		assert.Equal(t, 3, sess.Days())

		stored, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess, stored)
		loc.AssertExpectations(t)
	})

	t.Run("Distinct ids", func(t *testing.T) {
		svc, _, loc := newTestService(t)
		loc.On("CityCenter", mock.Anything, mock.Anything).Return(geocode.DefaultCenter)
		req := types.InitRequest{City: "Rome", StartDate: "2025-11-01", EndDate: "2025-11-01", Interests: []string{"Food"}}

		a, err := svc.Create(ctx, req)
		require.NoError(t, err)
		b, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, 1, a.Days())
	})

	tests := []struct {
		name      string
		req       types.InitRequest
		wantField string
	}{
		{"blank city", types.InitRequest{City: "   ", StartDate: "2025-11-01", EndDate: "2025-11-02", Interests: []string{"Food"}}, "city"},
		{"bad date", types.InitRequest{City: "Paris", StartDate: "11/01/2025", EndDate: "2025-11-02", Interests: []string{"Food"}}, "startDate"},
		{"end before start", types.InitRequest{City: "Paris", StartDate: "2025-11-05", EndDate: "2025-11-02", Interests: []string{"Food"}}, "endDate"},
		{"no interests", types.InitRequest{City: "Paris", StartDate: "2025-11-01", EndDate: "2025-11-02", Interests: []string{" "}}, "interests"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, loc := newTestService(t)

			_, err := svc.Create(ctx, tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrValidation)

			var verr *api.ValidationError
			require.True(t, errors.As(err, &verr))
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tc.wantField)
			assert.Equal(t, 0, store.Len())
			loc.AssertNotCalled(t, "CityCenter", mock.Anything, mock.Anything)
		})
	}
}

func TestGetSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestInitHandler(t *testing.T) {
	svc, _, loc := newTestService(t)
	loc.On("CityCenter", mock.Anything, "Tokyo").Return(geocode.Point{Lat: 35.67, Lon: 139.65})
	h := NewSessionHandler(svc, slog.New(slog.DiscardHandler))

	t.Run("Created", func(t *testing.T) {
		body := `{"city":"Tokyo","startDate":"2025-04-01","endDate":"2025-04-04","interests":["Food","Temples"]}`
		w := httptest.NewRecorder()
		h.Init(w, httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got["sessionId"])
		assert.Equal(t, "Tokyo", got["city"])
		assert.Equal(t, []any{35.67, 139.65}, got["cityCoordinates"])
	})

	t.Run("Validation error body", func(t *testing.T) {
		body := `{"city":"","startDate":"2025-04-01","endDate":"2025-04-04","interests":["Food"]}`
		w := httptest.NewRecorder()
		h.Init(w, httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var got api.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.False(t, got.Success)
		require.Len(t, got.Fields, 1)
		assert.Equal(t, api.FieldError{Field: "city", Message: "is required"}, got.Fields[0])
	})

	t.Run("Unknown field", func(t *testing.T) {
		body := `{"city":"Tokyo","startDate":"2025-04-01","endDate":"2025-04-04","interests":["Food"],"budget":10}`
		w := httptest.NewRecorder()
		h.Init(w, httptest.NewRequest(http.MethodPost, "/api/init", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
