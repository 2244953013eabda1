package itinerary

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// ItineraryHandler serves the recommendation, route and refinement endpoints.
type ItineraryHandler struct {
	service ItineraryService
	logger  *slog.Logger
}

func NewItineraryHandler(service ItineraryService, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{service: service, logger: logger}
}

// Recommend godoc
// @Summary      Recommend attractions
// @Description  Asks the model for 8-10 attractions matching the session's city, length and interests.
// @Tags         Planning
// @Accept       json
// @Produce      json
// @Param        request body types.SessionRef true "Session reference"
// @Success      200 {object} types.RecommendResponse
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      404 {object} api.Response "Session not found"
// @Failure      502 {object} api.Response "Model unavailable or invalid answer"
// @Router       /api/recommend [post]
func (h *ItineraryHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/recommend"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.SessionRef
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	attractions, err := h.service.Recommend(ctx, req.SessionID)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.RecommendResponse{Attractions: attractions})
}

// Route godoc
// @Summary      Build a route
// @Description  Schedules at least two selected attractions into a day-by-day route.
// @Tags         Planning
// @Accept       json
// @Produce      json
// @Param        request body types.RouteRequest true "Session and selected attractions"
// @Success      200 {object} types.Route
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      404 {object} api.Response "Session not found"
// @Failure      502 {object} api.Response "Model unavailable or invalid answer"
// @Router       /api/route [post]
func (h *ItineraryHandler) Route(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Route", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/route"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Route"))

	var req types.RouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	route, err := h.service.GenerateRoute(ctx, req.SessionID, req.Attractions)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}

// Refine godoc
// @Summary      Refine a route
// @Description  Rewrites the current route according to a free-text instruction. The whole route is replaced.
// @Tags         Planning
// @Accept       json
// @Produce      json
// @Param        request body types.RefineRequest true "Session, instruction and current route"
// @Success      200 {object} types.Route
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      404 {object} api.Response "Session not found"
// @Failure      502 {object} api.Response "Model unavailable or invalid answer; keep the previous route"
// @Router       /api/refine [post]
func (h *ItineraryHandler) Refine(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Refine", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/refine"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Refine"))

	var req types.RefineRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	route, err := h.service.Refine(ctx, req.SessionID, req.CurrentRoute, req.Message)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}
