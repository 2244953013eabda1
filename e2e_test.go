package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"

	"github.com/yuqiannemo/WanderMind/config"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/container"
	"github.com/yuqiannemo/WanderMind/internal/router"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var promptIDPattern = regexp.MustCompile(`\[([0-9a-f-]{36})\]`)

// scriptedModel answers the three planning prompts with well-formed JSON built
// from the prompt itself. Setting fail makes every call return garbage.
type scriptedModel struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (m *scriptedModel) GenerateContent(_ context.Context, prompt string, _ *genai.GenerateContentConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.fail {
		return "I am not able to help with that.", nil
	}

	switch {
	case strings.Contains(prompt, "Generate attraction recommendations"):
		return "```json\n" + `[
			{"name": "Louvre Museum", "description": "Art museum", "duration_hr": 3, "category": "Museum"},
			{"name": "Eiffel Tower", "description": "Landmark", "duration_hr": "2", "category": "Landmark"},
			{"name": "Le Marais", "description": "Historic district", "duration_hr": 2.5, "category": "Neighborhood"},
			{"name": "Musee d'Orsay", "description": "Impressionists", "duration_hr": 2, "category": "Museum"},
			{"name": "Montmartre", "description": "Hilltop village", "duration_hr": 2, "category": "Neighborhood"},
			{"name": "Seine Cruise", "description": "Boat tour", "duration_hr": 1, "category": "Activity"},
			{"name": "Sainte-Chapelle", "description": "Stained glass", "duration_hr": 1, "category": "Historical"},
			{"name": "Luxembourg Gardens", "description": "Park", "duration_hr": 1.5, "category": "Park"}
		]` + "\n```", nil

	case strings.Contains(prompt, "refine"):
		// reverse the current order on day 1
		ids := uniqueIDs(prompt)
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
		return planJSON(ids, "Swapped the order as requested."), nil

	default:
		return planJSON(uniqueIDs(prompt), ""), nil
	}
}

func (m *scriptedModel) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func uniqueIDs(prompt string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, m := range promptIDPattern.FindAllStringSubmatch(prompt, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// planJSON schedules ids back to back on day 1 from 09:00, two hours each,
// deliberately listing them out of order.
func planJSON(ids []string, summary string) string {
	type stop struct {
		ID     string `json:"attraction_id"`
		Order  int    `json:"order"`
		Day    int    `json:"day"`
		Start  string `json:"startTime"`
		End    string `json:"endTime"`
		Travel int    `json:"travelTimeToNext"`
	}
	stops := make([]stop, 0, len(ids))
	for i, id := range ids {
		stops = append(stops, stop{
			ID: id, Order: i + 1, Day: 1,
			Start:  fmt.Sprintf("%02d:00", 9+2*i),
			End:    fmt.Sprintf("%02d:45", 10+2*i),
			Travel: 15,
		})
	}
	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}
	out, _ := json.Marshal(map[string]any{"stops": stops, "summary": summary})
	return string(out)
}

// E2ETestSuite drives the full planning and saving flow through the real router
type E2ETestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	model  *scriptedModel
	c      *container.Container
}

func (s *E2ETestSuite) SetupSuite() {
	cfg := &config.Config{}
	cfg.Repositories.Driver = config.DriverMemory
	cfg.JWT = config.JWTConfig{SecretKey: "e2e-secret", Issuer: "wandermind", AccessTokenTTL: time.Hour}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.RateLimit.AIRequestsPerMinute = 1000

	s.model = &scriptedModel{}
	c, err := container.NewContainer(context.Background(), cfg, slog.New(slog.DiscardHandler),
		container.WithGenerator(s.model),
		container.WithGeocoder(nil))
	s.Require().NoError(err)
	s.c = c

	s.server = httptest.NewServer(router.SetupRouter(c.RouterConfig()))
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.c != nil {
		s.c.Close()
	}
}

func (s *E2ETestSuite) SetupTest() {
	s.model.setFail(false)
}

func (s *E2ETestSuite) do(method, path, token string, body any, out any) int {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *E2ETestSuite) newSession() types.Session {
	var sess types.Session
	status := s.do(http.MethodPost, "/api/init", "", types.InitRequest{
		City: "Paris", StartDate: "2025-11-01", EndDate: "2025-11-02", Interests: []string{"Museums", "Food"},
	}, &sess)
	s.Require().Equal(http.StatusCreated, status)
	return sess
}

func (s *E2ETestSuite) TestMeta() {
	var banner map[string]string
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/", "", nil, &banner))
	s.Equal("WanderMind API is running", banner["message"])

	resp, err := s.client.Get(s.server.URL + "/ping")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) TestPlanningFlow() {
	sess := s.newSession()
	s.NotEmpty(sess.ID)
	s.Equal("Paris", sess.City)
	s.Require().Len(sess.CityCoordinates, 2)
	s.InDelta(48.8566, sess.CityCoordinates[0], 0.001)

	var rec types.RecommendResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/recommend", "", types.SessionRef{SessionID: sess.ID}, &rec))
	s.Require().Len(rec.Attractions, 8)
	for _, a := range rec.Attractions {
		s.NotEmpty(a.ID)
		s.Require().NotNil(a.Latitude)
		s.InDelta(48.8566, *a.Latitude, 0.05)
		s.False(a.Selected)
	}

	selected := []types.Attraction{rec.Attractions[0], rec.Attractions[1], rec.Attractions[2]}
	for i := range selected {
		selected[i].Selected = true
	}
	var route types.Route
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/route", "",
		types.RouteRequest{SessionID: sess.ID, Attractions: selected}, &route))
	s.Require().Len(route.Stops, 3)
	s.Equal("Your personalized itinerary is ready!", route.Summary)
	for i, stop := range route.Stops {
		s.Equal(i+1, stop.Order)
		s.Equal(1, stop.Day)
		s.False(stop.Attraction.Selected)
	}
	s.Equal(selected[0].ID, route.Stops[0].Attraction.ID, "stops are ordered by start time")
	s.Nil(route.Stops[2].TravelTimeToNext, "last stop of a day has no onward travel")

	var refined types.Route
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/refine", "",
		types.RefineRequest{SessionID: sess.ID, Message: "Reverse the order", CurrentRoute: route}, &refined))
	s.Require().Len(refined.Stops, 3)
	s.Equal(route.Stops[2].Attraction.ID, refined.Stops[0].Attraction.ID)
	s.Equal("Swapped the order as requested.", refined.Summary)
}

func (s *E2ETestSuite) TestModelFailures() {
	sess := s.newSession()

	var route types.Route
	var rec types.RecommendResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/recommend", "", types.SessionRef{SessionID: sess.ID}, &rec))
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/route", "",
		types.RouteRequest{SessionID: sess.ID, Attractions: rec.Attractions[:2]}, &route))

	s.model.setFail(true)

	var errResp api.Response
	s.Equal(http.StatusBadGateway, s.do(http.MethodPost, "/api/recommend", "", types.SessionRef{SessionID: sess.ID}, &errResp))
	s.False(errResp.Success)
	s.NotContains(errResp.Error, "not able to help", "model output is never echoed")

	s.Equal(http.StatusBadGateway, s.do(http.MethodPost, "/api/refine", "",
		types.RefineRequest{SessionID: sess.ID, Message: "more museums", CurrentRoute: route}, &errResp))

	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/recommend", "", types.SessionRef{SessionID: "nope"}, &errResp))
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/route", "",
		types.RouteRequest{SessionID: sess.ID, Attractions: rec.Attractions[:1]}, &errResp))
	s.Equal("attractions", errResp.Fields[0].Field)
}

func (s *E2ETestSuite) TestValidation() {
	var errResp api.Response
	status := s.do(http.MethodPost, "/api/init", "", map[string]any{
		"city": "Paris", "startDate": "2025-11-05", "endDate": "2025-11-01", "interests": []string{"Food"},
	}, &errResp)
	s.Equal(http.StatusBadRequest, status)
	s.False(errResp.Success)

	status = s.do(http.MethodPost, "/api/init", "", map[string]any{"city": "Paris"}, &errResp)
	s.Equal(http.StatusBadRequest, status)
	s.NotEmpty(errResp.Fields)
}

func (s *E2ETestSuite) TestAccountAndPlans() {
	var signup types.TokenResponse
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/auth/signup", "",
		types.SignupRequest{Email: "Traveller@Example.com", Password: "secret123", Name: "Traveller"}, &signup))
	s.Equal("traveller@example.com", signup.User.Email)
	token := signup.AccessToken

	var other types.TokenResponse
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/auth/signup", "",
		types.SignupRequest{Email: "other@example.com", Password: "secret123", Name: "Other"}, &other))

	var login types.TokenResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/auth/login", "",
		types.LoginRequest{Email: "traveller@example.com", Password: "secret123"}, &login))

	var me types.User
	s.Require().Equal(http.StatusOK, s.do(http.MethodPut, "/api/auth/preferences", login.AccessToken, []string{"Food", "Art"}, &me))
	s.Equal([]string{"Food", "Art"}, me.Interests)

	sess := s.newSession()
	var rec types.RecommendResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/recommend", "", types.SessionRef{SessionID: sess.ID}, &rec))
	var route types.Route
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/route", "",
		types.RouteRequest{SessionID: sess.ID, Attractions: rec.Attractions[:3]}, &route))

	var errResp api.Response
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/plans/save", "",
		types.SavePlanRequest{SessionID: sess.ID, Route: route}, &errResp))

	var saved types.SavedPlan
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/plans/save", token,
		types.SavePlanRequest{SessionID: sess.ID, Route: route}, &saved))
	s.Equal("Paris trip (2025-11-01 to 2025-11-02)", saved.Title)
	s.Equal(signup.User.ID, saved.UserID)
	s.Equal(route, saved.Route)

	var list []types.SavedPlan
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/plans", token, nil, &list))
	s.Require().Len(list, 1)

	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/plans", other.AccessToken, nil, &list))
	s.Empty(list)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/plans/"+saved.ID, other.AccessToken, nil, &errResp))
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/plans/"+saved.ID, other.AccessToken, nil, &errResp))

	var got types.SavedPlan
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/plans/"+saved.ID, token, nil, &got))
	s.Equal(saved.ID, got.ID)

	var empty map[string]any
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/plans/"+saved.ID, token, nil, &empty))
	s.Empty(empty)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/plans/"+saved.ID, token, nil, &errResp))
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func TestPlanJSONIsParseable(t *testing.T) {
	raw := planJSON([]string{"a", "b"}, "")
	var decoded struct {
		Stops []map[string]any `json:"stops"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded.Stops, 2)
	assert.Equal(t, "b", decoded.Stops[0]["attraction_id"])
}
