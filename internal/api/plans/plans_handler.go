package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/auth"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// PlanHandler serves the saved-plan endpoints. All routes sit behind
// auth.Authenticate.
type PlanHandler struct {
	service PlanService
	logger  *slog.Logger
}

func NewPlanHandler(service PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{service: service, logger: logger}
}

// Save godoc
// @Summary      Save a plan
// @Description  Stores the route together with the session's city, dates and interests.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.SavePlanRequest true "Session, route and optional title"
// @Success      201 {object} types.SavedPlan
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Failure      404 {object} api.Response "Session not found"
// @Router       /api/plans/save [post]
func (h *PlanHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "Save", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/plans/save"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SavePlan"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.SavePlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	plan, err := h.service.Save(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save plan")
		api.HandleError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Plan saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, plan)
}

// List godoc
// @Summary      List saved plans
// @Description  Returns the caller's plans, newest first.
// @Tags         Plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.SavedPlan
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Router       /api/plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ListPlans"))

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	plans, err := h.service.List(r.Context(), userID)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, plans)
}

// Get godoc
// @Summary      Get a saved plan
// @Tags         Plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Plan ID"
// @Success      200 {object} types.SavedPlan
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Failure      404 {object} api.Response "Plan not found"
// @Router       /api/plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetPlan"))

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	plan, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// Delete godoc
// @Summary      Delete a saved plan
// @Tags         Plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Plan ID"
// @Success      200 {object} object
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Failure      404 {object} api.Response "Plan not found"
// @Router       /api/plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "DeletePlan"))

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, struct{}{})
}
