package itinerary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuqiannemo/WanderMind/internal/types"
)

const systemInstruction = "You are a travel expert who returns responses in valid JSON format only."

const (
	defaultRouteSummary  = "Your personalized itinerary is ready!"
	defaultRefineSummary = "Your itinerary has been updated!"
)

var attractionCategories = []string{
	"Museum", "Historical Site", "Nature & Parks", "Food & Dining", "Shopping",
	"Entertainment", "Architecture", "Cultural Experience", "Adventure", "Beach",
}

const routeStopSchema = `{
  "stops": [
    {
      "attraction_id": "id exactly as given",
      "attraction_name": "Name exactly as given",
      "order": 1,
      "day": 1,
      "startTime": "09:00",
      "endTime": "11:00",
      "travelTimeToNext": 20
    }
  ],
  "summary": "%s"
}`

func recommendPrompt(sess types.Session) string {
	return fmt.Sprintf(`You are an expert travel planner. Generate attraction recommendations for a trip.

Location: %s
Duration: %d days
Interests: %s

Generate 8-10 diverse attractions that match the user's interests. Return ONLY a valid JSON array with this exact structure:
[
  {
    "name": "Attraction Name",
    "description": "Brief engaging description (1-2 sentences)",
    "duration_hr": 2.5,
    "category": "Museum"
  }
]

Categories should be one of: %s

Ensure the JSON is properly formatted and parseable. Do not include any text before or after the JSON array.`,
		sess.City, sess.Days(), strings.Join(sess.Interests, ", "), strings.Join(attractionCategories, ", "))
}

func routePrompt(sess types.Session, attractions []types.Attraction) string {
	var b strings.Builder
	for _, a := range attractions {
		fmt.Fprintf(&b, "- [%s] %s (%s, %sh)\n", a.ID, a.Name, a.Category, formatHours(a.DurationHr))
	}

	return fmt.Sprintf(`You are an expert travel planner. Create an optimized itinerary.

Location: %s
Duration: %d days
Selected Attractions (id in brackets):
%s
Create a logical route that:
1. Groups nearby attractions
2. Considers opening hours (assume museums 10am-6pm, outdoor sites 8am-8pm)
3. Includes realistic travel times (15-30 min between stops)
4. Balances each day (6-8 hours of activities)
5. Starts at 9:00 AM each day
6. Uses only days 1 to %d

Return ONLY a valid JSON object with this structure:
%s

Use 24-hour HH:MM times. Ensure order starts at 1 and increments within each day. The last stop of each day should have travelTimeToNext: null.
Return ONLY valid JSON, no other text.`,
		sess.City, sess.Days(), b.String(), sess.Days(),
		fmt.Sprintf(routeStopSchema, "A natural language summary of the itinerary (2-3 sentences)"))
}

func refinePrompt(sess types.Session, current types.Route, message string) string {
	var b strings.Builder
	for _, s := range current.Stops {
		fmt.Fprintf(&b, "Day %d, Stop %d: [%s] %s (%s-%s, %sh)\n",
			s.Day, s.Order, s.Attraction.ID, s.Attraction.Name, s.StartTime, s.EndTime, formatHours(s.Attraction.DurationHr))
	}

	return fmt.Sprintf(`You are a travel planner helping refine an itinerary.

Location: %s
Duration: %d days
Current Route (attraction id in brackets):
%s
User Request: %s

Modify the route according to the user's request. Only use attractions from the current route. Return ONLY a valid JSON object with this structure:
%s

Use 24-hour HH:MM times. The last stop of each day should have travelTimeToNext: null.
Return ONLY valid JSON, no other text.`,
		sess.City, sess.Days(), b.String(), message,
		fmt.Sprintf(routeStopSchema, "A natural language summary explaining the changes made (2-3 sentences)"))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
