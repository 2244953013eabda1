package types

import "slices"

// Attraction is a point of interest proposed by the recommendation gateway.
type Attraction struct {
	ID          string    `json:"id,omitempty" example:"5f0e3c1a-0a8b-4a57-bb5b-54e1c3e0d2f9"`
	Name        string    `json:"name" validate:"required" example:"Louvre Museum"`
	Description string    `json:"description" example:"The world's largest art museum."`
	DurationHr  float64   `json:"duration_hr" validate:"gt=0" example:"3"`
	Category    string    `json:"category" example:"Museum"`
	Latitude    *float64  `json:"latitude,omitempty" example:"48.8606"`
	Longitude   *float64  `json:"longitude,omitempty" example:"2.3376"`
	Coordinates []float64 `json:"coordinates,omitempty"` // [lat, lon]
	// Selected is client presentation state. It is accepted on input and
	// cleared before the attraction is embedded in a route.
	Selected bool `json:"selected,omitempty"`
}

// SetCoordinates fills the three coordinate fields consistently.
func (a *Attraction) SetCoordinates(lat, lon float64) {
	a.Latitude = &lat
	a.Longitude = &lon
	a.Coordinates = []float64{lat, lon}
}

// Clone returns a deep copy of the attraction.
func (a Attraction) Clone() Attraction {
	if a.Latitude != nil {
		lat := *a.Latitude
		a.Latitude = &lat
	}
	if a.Longitude != nil {
		lon := *a.Longitude
		a.Longitude = &lon
	}
	a.Coordinates = slices.Clone(a.Coordinates)
	return a
}

// RouteStop is one visit in a route.
type RouteStop struct {
	Attraction       Attraction `json:"attraction" validate:"required"`
	Order            int        `json:"order" validate:"gte=1" example:"1"`
	Day              int        `json:"day" validate:"gte=1" example:"1"`
	StartTime        string     `json:"startTime" validate:"required" example:"09:00"`
	EndTime          string     `json:"endTime" validate:"required" example:"11:00"`
	TravelTimeToNext *int       `json:"travelTimeToNext" example:"20"` // minutes, null on the last stop of a day
}

// Route is an ordered, time-boxed itinerary. Routes are always replaced
// wholesale, never patched.
type Route struct {
	Stops         []RouteStop `json:"stops" validate:"required,min=1,dive"`
	TotalDuration float64     `json:"totalDuration" example:"7.5"`
	Summary       string      `json:"summary" example:"A relaxed museum-focused weekend."`
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	out := Route{TotalDuration: r.TotalDuration, Summary: r.Summary}
	if r.Stops != nil {
		out.Stops = make([]RouteStop, len(r.Stops))
	}
	for i, s := range r.Stops {
		s.Attraction = s.Attraction.Clone()
		if s.TravelTimeToNext != nil {
			v := *s.TravelTimeToNext
			s.TravelTimeToNext = &v
		}
		out.Stops[i] = s
	}
	return out
}

// RecommendResponse is the body returned by POST /api/recommend.
type RecommendResponse struct {
	Attractions []Attraction `json:"attractions"`
}

// RouteRequest is the body of POST /api/route.
type RouteRequest struct {
	SessionID   string       `json:"session_id" validate:"required"`
	Attractions []Attraction `json:"attractions" validate:"required,min=2,dive"`
}

// RefineRequest is the body of POST /api/refine.
type RefineRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	Message      string `json:"message" validate:"required" example:"Move the Louvre to the second day"`
	CurrentRoute Route  `json:"current_route"`
}
