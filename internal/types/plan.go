package types

import (
	"slices"
	"time"
)

// SavedPlan is a named snapshot of a route owned by one user.
type SavedPlan struct {
	ID        string    `json:"id" example:"01J9ZQ4X3N8YH6V2C1K7M5T0RB"`
	UserID    string    `json:"userId"`
	City      string    `json:"city" example:"Paris"`
	StartDate string    `json:"startDate" example:"2025-11-01"`
	EndDate   string    `json:"endDate" example:"2025-11-03"`
	Interests []string  `json:"interests"`
	SavedAt   time.Time `json:"savedAt"`
	Title     string    `json:"title" example:"Paris trip (2025-11-01 to 2025-11-03)"`
	Route     Route     `json:"route"`
}

// Clone returns a deep copy of the plan.
func (p SavedPlan) Clone() SavedPlan {
	p.Interests = slices.Clone(p.Interests)
	p.Route = p.Route.Clone()
	return p
}

// SavePlanRequest is the body of POST /api/plans/save.
type SavePlanRequest struct {
	SessionID string  `json:"session_id" validate:"required"`
	Route     Route   `json:"route"`
	Title     *string `json:"title,omitempty" example:"Autumn in Paris"`
}
