package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/geocode"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// MockGenerator is a mock implementation of ContentGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, cfg)
	return args.String(0), args.Error(1)
}

type fakeSessions map[string]types.Session

func (f fakeSessions) Get(_ context.Context, id string) (types.Session, error) {
	s, ok := f[id]
	if !ok {
		return types.Session{}, api.Errorf(api.ErrNotFound, "session %s", id)
	}
	return s, nil
}

type recordingLocator struct {
	calls int
}

func (r *recordingLocator) LocateAttractions(_ context.Context, _ string, center geocode.Point, attractions []types.Attraction) {
	r.calls++
	for i := range attractions {
		p := geocode.Jitter(center, attractions[i].Name)
		attractions[i].SetCoordinates(p.Lat, p.Lon)
	}
}

const testSessionID = "sess-1"

func newTestService() (*ItineraryServiceImpl, *MockGenerator, *recordingLocator) {
	gen := new(MockGenerator)
	loc := &recordingLocator{}
	sessions := fakeSessions{testSessionID: {
		ID:              testSessionID,
		City:            "Paris",
		StartDate:       "2025-11-01",
		EndDate:         "2025-11-02",
		Interests:       []string{"Museums", "Food"},
		CityCoordinates: []float64{48.8566, 2.3522},
	}}
	return NewItineraryService(sessions, gen, loc, slog.New(slog.DiscardHandler)), gen, loc
}

func promptContaining(parts ...string) any {
	return mock.MatchedBy(func(prompt string) bool {
		for _, p := range parts {
			if !strings.Contains(prompt, p) {
				return false
			}
		}
		return true
	})
}

func jsonConfig() any {
	return mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
		return cfg != nil && cfg.ResponseMIMEType == "application/json" && cfg.SystemInstruction != nil
	})
}

const recommendReply = `[
	{"name":"Louvre Museum","description":"Art","duration_hr":3,"category":"Museum"},
	{"name":"Le Comptoir","description":"Bistro","duration_hr":1.5,"category":"Food & Dining"}
]`

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, gen, loc := newTestService()
		gen.On("GenerateContent", mock.Anything, promptContaining("Paris", "2 days", "Museums, Food"), jsonConfig()).
			Return(recommendReply, nil).Once()

		got, err := svc.Recommend(ctx, testSessionID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, a := range got {
			assert.NotEmpty(t, a.ID)
			require.NotNil(t, a.Latitude)
			require.NotNil(t, a.Longitude)
			assert.Len(t, a.Coordinates, 2)
		}
		assert.NotEqual(t, got[0].ID, got[1].ID)
		assert.Equal(t, 1, loc.calls)
		gen.AssertExpectations(t)
	})

	t.Run("Fresh ids on every call", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(recommendReply, nil)

		first, err := svc.Recommend(ctx, testSessionID)
		require.NoError(t, err)
		second, err := svc.Recommend(ctx, testSessionID)
		require.NoError(t, err)
		assert.NotEqual(t, first[0].ID, second[0].ID)
	})

	t.Run("Unknown session skips the model", func(t *testing.T) {
		svc, gen, _ := newTestService()
		_, err := svc.Recommend(ctx, "missing")
		assert.ErrorIs(t, err, api.ErrNotFound)
		gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Model failure", func(t *testing.T) {
		svc, gen, loc := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

		_, err := svc.Recommend(ctx, testSessionID)
		assert.ErrorIs(t, err, api.ErrUpstream)
		assert.Equal(t, 0, loc.calls)
	})

	t.Run("Malformed reply", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("Paris is lovely!", nil)

		_, err := svc.Recommend(ctx, testSessionID)
		assert.ErrorIs(t, err, api.ErrUpstream)
	})
}

func selection() []types.Attraction {
	return []types.Attraction{
		{ID: "a1", Name: "Louvre", DurationHr: 3, Category: "Museum", Selected: true},
		{ID: "a2", Name: "Eiffel Tower", DurationHr: 2, Category: "Architecture", Selected: true},
	}
}

const routeReply = `{"stops":[
	{"attraction_id":"a1","attraction_name":"Louvre","order":1,"day":1,"startTime":"09:00","endTime":"12:00","travelTimeToNext":20},
	{"attraction_id":"a2","attraction_name":"Eiffel Tower","order":2,"day":1,"startTime":"12:20","endTime":"14:20","travelTimeToNext":10}
],"summary":"A classic day."}`

func TestGenerateRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, promptContaining("[a1] Louvre", "[a2] Eiffel Tower"), jsonConfig()).
			Return(routeReply, nil).Once()

		route, err := svc.GenerateRoute(ctx, testSessionID, selection())
		require.NoError(t, err)
		require.Len(t, route.Stops, 2)
		assert.Equal(t, []int{1, 2}, []int{route.Stops[0].Order, route.Stops[1].Order})
		assert.Nil(t, route.Stops[1].TravelTimeToNext)
		assert.False(t, route.Stops[0].Attraction.Selected)
		assert.Equal(t, 5.0, route.TotalDuration)
		assert.Equal(t, "A classic day.", route.Summary)
	})

	t.Run("Fewer than two attractions", func(t *testing.T) {
		svc, gen, _ := newTestService()
		one := selection()[:1]

		_, err := svc.GenerateRoute(ctx, testSessionID, one)
		require.ErrorIs(t, err, api.ErrValidation)
		var verr *api.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "attractions", verr.Fields[0].Field)

		// duplicates do not count twice
		dup := append(selection()[:1], selection()[0])
		_, err = svc.GenerateRoute(ctx, testSessionID, dup)
		assert.ErrorIs(t, err, api.ErrValidation)

		gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid attraction", func(t *testing.T) {
		svc, _, _ := newTestService()
		bad := selection()
		bad[1].DurationHr = 0
		_, err := svc.GenerateRoute(ctx, testSessionID, bad)
		assert.ErrorIs(t, err, api.ErrValidation)
	})

	t.Run("Attractions without ids are matched by name", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(`{"stops":[
			{"attraction_name":"Louvre","order":1,"day":1,"startTime":"09:00","endTime":"12:00"},
			{"attraction_name":"Eiffel Tower","order":2,"day":1,"startTime":"13:00","endTime":"15:00"}
		]}`, nil)
		sel := selection()
		sel[0].ID, sel[1].ID = "", ""

		route, err := svc.GenerateRoute(ctx, testSessionID, sel)
		require.NoError(t, err)
		require.Len(t, route.Stops, 2)
		assert.NotEmpty(t, route.Stops[0].Attraction.ID)
		assert.Equal(t, defaultRouteSummary, route.Summary)
		assert.Empty(t, sel[0].ID, "caller's slice untouched")
	})

	t.Run("Model leaves out a selected attraction", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(`{"stops":[
			{"attraction_id":"a1","attraction_name":"Louvre","order":1,"day":1,"startTime":"09:00","endTime":"12:00"}
		]}`, nil)
		_, err := svc.GenerateRoute(ctx, testSessionID, selection())
		assert.ErrorIs(t, err, api.ErrUpstream)
	})

	t.Run("Only unknown attractions", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(`{"stops":[
			{"attraction_name":"Big Ben","order":1,"day":1,"startTime":"09:00","endTime":"12:00"}
		]}`, nil)
		_, err := svc.GenerateRoute(ctx, testSessionID, selection())
		assert.ErrorIs(t, err, api.ErrUpstream)
	})
}

func currentRoute() types.Route {
	return types.Route{
		Stops: []types.RouteStop{
			{Attraction: types.Attraction{ID: "a1", Name: "Louvre", DurationHr: 3}, Order: 1, Day: 1, StartTime: "09:00", EndTime: "12:00", TravelTimeToNext: intp(20)},
			{Attraction: types.Attraction{ID: "a2", Name: "Eiffel Tower", DurationHr: 2}, Order: 2, Day: 1, StartTime: "12:20", EndTime: "14:20"},
		},
		TotalDuration: 5,
		Summary:       "A classic day.",
	}
}

func TestRefine(t *testing.T) {
	ctx := context.Background()

	t.Run("Success replaces the whole route", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, promptContaining("User Request: Start with the Eiffel Tower", "Day 1, Stop 1: [a1] Louvre"), jsonConfig()).
			Return(`{"stops":[
				{"attraction_id":"a2","order":1,"day":1,"startTime":"09:00","endTime":"11:00","travelTimeToNext":20},
				{"attraction_id":"a1","order":2,"day":1,"startTime":"11:20","endTime":"14:20","travelTimeToNext":30}
			],"summary":"Swapped the order."}`, nil).Once()

		route, err := svc.Refine(ctx, testSessionID, currentRoute(), "  Start with the Eiffel Tower ")
		require.NoError(t, err)
		assert.Equal(t, "a2", route.Stops[0].Attraction.ID)
		assert.Equal(t, "a1", route.Stops[1].Attraction.ID)
		assert.Nil(t, route.Stops[1].TravelTimeToNext)
		assert.Equal(t, "Swapped the order.", route.Summary)
	})

	t.Run("Failure leaves the input route untouched", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(`{"stops":[{"attraction_id":"a1","day":1,"startTime":"soon","endTime":"later"}]}`, nil)

		input := currentRoute()
		input.Stops[1].Attraction.ID = ""
		before := input.Clone()

		_, err := svc.Refine(ctx, testSessionID, input, "make it shorter")
		assert.ErrorIs(t, err, api.ErrUpstream)
		assert.Equal(t, before, input)
	})

	t.Run("Stops may be removed", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(`{"stops":[
			{"attraction_id":"a2","order":1,"day":1,"startTime":"10:00","endTime":"12:00","travelTimeToNext":15}
		]}`, nil)

		route, err := svc.Refine(ctx, testSessionID, currentRoute(), "skip the Louvre")
		require.NoError(t, err)
		require.Len(t, route.Stops, 1)
		assert.Equal(t, "a2", route.Stops[0].Attraction.ID)
		assert.Equal(t, 2.0, route.TotalDuration)
	})

	t.Run("Blank instruction", func(t *testing.T) {
		svc, gen, _ := newTestService()
		_, err := svc.Refine(ctx, testSessionID, currentRoute(), "   ")
		assert.ErrorIs(t, err, api.ErrValidation)
		gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty route", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Refine(ctx, testSessionID, types.Route{}, "add a museum")
		assert.ErrorIs(t, err, api.ErrValidation)
	})

	t.Run("Model failure", func(t *testing.T) {
		svc, gen, _ := newTestService()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)
		_, err := svc.Refine(ctx, testSessionID, currentRoute(), "slower pace")
		assert.ErrorIs(t, err, api.ErrUpstream)
	})
}

func TestItineraryHandler(t *testing.T) {
	svc, gen, _ := newTestService()
	h := NewItineraryHandler(svc, slog.New(slog.DiscardHandler))

	t.Run("Recommend", func(t *testing.T) {
		gen.On("GenerateContent", mock.Anything, promptContaining("Generate 8-10"), mock.Anything).Return(recommendReply, nil).Once()
		w := httptest.NewRecorder()
		h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"session_id":"sess-1"}`)))

		require.Equal(t, http.StatusOK, w.Code)
		var body types.RecommendResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Attractions, 2)
	})

	t.Run("Recommend unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"session_id":"nope"}`)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Route with one attraction", func(t *testing.T) {
		body := `{"session_id":"sess-1","attractions":[{"id":"a1","name":"Louvre","description":"","duration_hr":3,"category":"Museum","selected":true}]}`
		w := httptest.NewRecorder()
		h.Route(w, httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Refine upstream failure maps to 502", func(t *testing.T) {
		gen.On("GenerateContent", mock.Anything, promptContaining("User Request: more food"), mock.Anything).Return("not json", nil).Once()
		payload, err := json.Marshal(types.RefineRequest{SessionID: testSessionID, Message: "more food", CurrentRoute: currentRoute()})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.Refine(w, httptest.NewRequest(http.MethodPost, "/api/refine", strings.NewReader(string(payload))))
		assert.Equal(t, http.StatusBadGateway, w.Code)

		var resp api.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "try again")
	})
}
