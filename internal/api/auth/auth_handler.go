package auth

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

type AuthHandler struct {
	AuthService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		AuthService: authService,
	}
}

// Signup godoc
// @Summary      Create an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.SignupRequest true "Account details"
// @Success      201 {object} types.TokenResponse
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      409 {object} api.Response "Email already registered"
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Signup", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/signup"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Signup"))

	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.HandleError(w, r, l, err)
		return
	}

	resp, err := h.AuthService.Signup(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Signup failed")
		api.HandleError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Signed up")
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.LoginRequest true "Credentials"
// @Success      200 {object} types.TokenResponse
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      401 {object} api.Response "Invalid email or password"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	resp, err := h.AuthService.Login(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "Login failed")
		api.HandleError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Logged in")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Me godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.User
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Me"))

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.AuthService.Me(r.Context(), userID)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// UpdatePreferences godoc
// @Summary      Replace saved interests
// @Description  The body is a bare JSON array of interest names.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body []string true "Interests"
// @Success      200 {object} types.User
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      401 {object} api.Response "Missing or invalid token"
// @Router       /api/auth/preferences [put]
func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "UpdatePreferences", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/auth/preferences"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdatePreferences"))

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var interests []string
	if err := api.DecodeJSONBody(w, r, &interests); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	user, err := h.AuthService.UpdatePreferences(ctx, userID, interests)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update preferences")
		api.HandleError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Preferences updated")
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}
