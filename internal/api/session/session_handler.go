package session

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

// SessionHandler serves the session endpoints.
type SessionHandler struct {
	service SessionService
	logger  *slog.Logger
}

func NewSessionHandler(service SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: service, logger: logger}
}

// Init godoc
// @Summary      Start a planning session
// @Description  Creates a write-once planning session for a city, date range and interests.
// @Tags         Planning
// @Accept       json
// @Produce      json
// @Param        request body types.InitRequest true "Trip parameters"
// @Success      201 {object} types.Session
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /api/init [post]
func (h *SessionHandler) Init(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "Init", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/init"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Init"))

	var req types.InitRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.HandleError(w, r, l, err)
		return
	}

	sess, err := h.service.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session")
		api.HandleError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Session created")
	api.WriteJSONResponse(w, r, http.StatusCreated, sess)
}
