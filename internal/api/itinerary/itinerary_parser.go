package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// cleanJSONResponse strips code fences and any prose around the first JSON
// array or object in a model reply.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	start := strings.IndexAny(response, "[{")
	if start == -1 {
		return response
	}
	closer := "}"
	if response[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(response, closer)
	if end <= start {
		return response
	}
	return response[start : end+1]
}

// number accepts a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("not a finite number: %s", b)
	}
	*n = number(f)
	return nil
}

type modelAttraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationHr  number `json:"duration_hr"`
	Category    string `json:"category"`
}

// parseAttractions accepts a bare array or {"attractions": [...]}. Entries
// with a blank name, a non-positive duration or a repeated name are dropped.
func parseAttractions(reply string) ([]types.Attraction, error) {
	cleaned := cleanJSONResponse(reply)

	var raw []modelAttraction
	if strings.HasPrefix(cleaned, "{") {
		var wrapped struct {
			Attractions []modelAttraction `json:"attractions"`
		}
		if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
			return nil, fmt.Errorf("decoding attractions object: %v: %w", err, api.ErrUpstream)
		}
		raw = wrapped.Attractions
	} else if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decoding attractions array: %v: %w", err, api.ErrUpstream)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]types.Attraction, 0, len(raw))
	for _, m := range raw {
		name := strings.TrimSpace(m.Name)
		key := strings.ToLower(name)
		if name == "" || m.DurationHr <= 0 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, types.Attraction{
			Name:        name,
			Description: strings.TrimSpace(m.Description),
			DurationHr:  float64(m.DurationHr),
			Category:    strings.TrimSpace(m.Category),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable attractions in model reply: %w", api.ErrUpstream)
	}
	return out, nil
}

type plannedStop struct {
	AttractionID     string  `json:"attraction_id"`
	AttractionName   string  `json:"attraction_name"`
	Order            number  `json:"order"`
	Day              number  `json:"day"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	TravelTimeToNext *number `json:"travelTimeToNext"`
}

type routePlan struct {
	Stops   []plannedStop `json:"stops"`
	Summary string        `json:"summary"`
}

func parseRoutePlan(reply string) (routePlan, error) {
	var plan routePlan
	if err := json.Unmarshal([]byte(cleanJSONResponse(reply)), &plan); err != nil {
		return routePlan{}, fmt.Errorf("decoding route: %v: %w", err, api.ErrUpstream)
	}
	return plan, nil
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// parseClock returns minutes since midnight.
func parseClock(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unparseable time %q", s)
}

// maxTravelMinutes bounds travelTimeToNext to one day.
const maxTravelMinutes = 24 * 60

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type placedStop struct {
	stop       types.RouteStop
	startMin   int
	modelIndex int
	modelOrder float64
}

// buildRoute turns a model plan into a Route over the given attraction pool.
//
// Stops are matched to the pool by attraction_id, then by case-insensitive
// name; unmatched and repeated attractions are dropped. The result is sorted
// by (day, start time, model order) and order is renumbered 1..n per day.
// travelTimeToNext is cleared on the last stop of each day and when negative.
// With requireAll every pool attraction must be placed exactly once.
func buildRoute(plan routePlan, pool []types.Attraction, defaultSummary string, requireAll bool) (types.Route, error) {
	byID := make(map[string]int, len(pool))
	byName := make(map[string]int, len(pool))
	for i, a := range pool {
		if a.ID != "" {
			byID[a.ID] = i
		}
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}

	used := make(map[int]struct{}, len(pool))
	placed := make([]placedStop, 0, len(plan.Stops))
	var problems []error

	for idx, ps := range plan.Stops {
		poolIdx, ok := byID[strings.TrimSpace(ps.AttractionID)]
		if !ok {
			poolIdx, ok = byName[strings.ToLower(strings.TrimSpace(ps.AttractionName))]
		}
		if !ok {
			continue
		}
		if _, dup := used[poolIdx]; dup {
			continue
		}

		day := int(ps.Day)
		if float64(day) != float64(ps.Day) || day < 1 {
			problems = append(problems, fmt.Errorf("stop %d: invalid day %v", idx, float64(ps.Day)))
			continue
		}
		start, errStart := parseClock(ps.StartTime)
		end, errEnd := parseClock(ps.EndTime)
		if err := errors.Join(errStart, errEnd); err != nil {
			problems = append(problems, fmt.Errorf("stop %d: %w", idx, err))
			continue
		}
		if end < start {
			problems = append(problems, fmt.Errorf("stop %d: ends at %s before it starts at %s", idx, formatClock(end), formatClock(start)))
			continue
		}

		used[poolIdx] = struct{}{}
		attraction := pool[poolIdx].Clone()
		attraction.Selected = false

		if ps.TravelTimeToNext != nil && *ps.TravelTimeToNext > maxTravelMinutes {
			problems = append(problems, fmt.Errorf("stop %d: travel time %v minutes exceeds a day", idx, float64(*ps.TravelTimeToNext)))
			continue
		}

		var travel *int
		if ps.TravelTimeToNext != nil && *ps.TravelTimeToNext >= 0 {
			v := int(math.Round(float64(*ps.TravelTimeToNext)))
			travel = &v
		}

		placed = append(placed, placedStop{
			stop: types.RouteStop{
				Attraction:       attraction,
				Day:              day,
				StartTime:        formatClock(start),
				EndTime:          formatClock(end),
				TravelTimeToNext: travel,
			},
			startMin:   start,
			modelIndex: idx,
			modelOrder: float64(ps.Order),
		})
	}

	if len(problems) > 0 {
		return types.Route{}, fmt.Errorf("malformed route: %v: %w", errors.Join(problems...), api.ErrUpstream)
	}
	if len(placed) == 0 {
		return types.Route{}, fmt.Errorf("route has no stops matching the given attractions: %w", api.ErrUpstream)
	}
	if requireAll && len(used) < len(pool) {
		var missing []string
		for i, a := range pool {
			if _, ok := used[i]; !ok {
				missing = append(missing, a.Name)
			}
		}
		return types.Route{}, fmt.Errorf("route leaves out %s: %w", strings.Join(missing, ", "), api.ErrUpstream)
	}

	sort.SliceStable(placed, func(i, j int) bool {
		a, b := placed[i], placed[j]
		if a.stop.Day != b.stop.Day {
			return a.stop.Day < b.stop.Day
		}
		if a.startMin != b.startMin {
			return a.startMin < b.startMin
		}
		if a.modelOrder != b.modelOrder {
			return a.modelOrder < b.modelOrder
		}
		return a.modelIndex < b.modelIndex
	})

	route := types.Route{Stops: make([]types.RouteStop, len(placed))}
	order := 0
	for i, p := range placed {
		if i == 0 || placed[i-1].stop.Day != p.stop.Day {
			order = 0
		}
		order++
		p.stop.Order = order
		if i == len(placed)-1 || placed[i+1].stop.Day != p.stop.Day {
			p.stop.TravelTimeToNext = nil
		}
		route.Stops[i] = p.stop
		route.TotalDuration += p.stop.Attraction.DurationHr
	}

	route.Summary = strings.TrimSpace(plan.Summary)
	if route.Summary == "" {
		route.Summary = defaultSummary
	}
	return route, nil
}
