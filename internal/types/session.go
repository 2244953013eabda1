package types

import (
	"slices"
	"time"
)

// DateLayout is the calendar date format used on the wire for trip dates.
const DateLayout = "2006-01-02"

// InitRequest is the body of POST /api/init.
type InitRequest struct {
	City      string   `json:"city" validate:"required" example:"Paris"`                                  // Destination city.
	StartDate string   `json:"startDate" validate:"required,datetime=2006-01-02" example:"2025-11-01"`   // First day of the trip.
	EndDate   string   `json:"endDate" validate:"required,datetime=2006-01-02" example:"2025-11-03"`     // Last day of the trip.
	Interests []string `json:"interests" validate:"required,min=1,dive,required" example:"Museums,Food"` // Interest tags.
}

// Session is one trip-planning attempt. It is never modified after creation.
type Session struct {
	ID              string    `json:"sessionId" example:"0d5c2ad4-5b5e-4c59-9a56-5b3f0b9f8a11"`
	City            string    `json:"city" example:"Paris"`
	StartDate       string    `json:"startDate" example:"2025-11-01"`
	EndDate         string    `json:"endDate" example:"2025-11-03"`
	Interests       []string  `json:"interests"`
	CityCoordinates []float64 `json:"cityCoordinates,omitempty"` // [lat, lon]
	CreatedAt       time.Time `json:"createdAt"`
}

// Days returns the inclusive number of calendar days covered by the session.
func (s Session) Days() int {
	start, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil || end.Before(start) {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (s Session) Clone() Session {
	s.Interests = slices.Clone(s.Interests)
	s.CityCoordinates = slices.Clone(s.CityCoordinates)
	return s
}

// SessionRef is the body shared by the gateway endpoints.
type SessionRef struct {
	SessionID string `json:"session_id" validate:"required" example:"0d5c2ad4-5b5e-4c59-9a56-5b3f0b9f8a11"`
}
