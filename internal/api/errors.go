package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	// ErrUpstream marks a failed or malformed generative model call.
	ErrUpstream = errors.New("upstream model call failed")
)

// upstreamMessage is what clients see for any ErrUpstream. Details stay in the logs.
const upstreamMessage = "The itinerary assistant is unavailable or returned an invalid answer, please try again"

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field" example:"city"`
	Message string `json:"message" example:"is required"`
}

// ValidationError carries field-level problems and unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Response is the error envelope returned by every endpoint.
type Response struct {
	Success   bool         `json:"success" example:"false"`
	Error     string       `json:"error" example:"city is required"`
	RequestID string       `json:"request_id,omitempty"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError classifies err, logs it and writes the matching error body.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	resp := Response{
		Success:   false,
		RequestID: middleware.GetReqID(r.Context()),
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Error = verr.Error()
		resp.Fields = verr.Fields
	case status == http.StatusBadGateway:
		resp.Error = upstreamMessage
	case status == http.StatusInternalServerError:
		resp.Error = "Internal server error"
	default:
		resp.Error = clientMessage(err)
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", slog.Int("status", status), slog.Any("error", err))
	} else {
		logger.InfoContext(r.Context(), "Request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	WriteJSONResponse(w, r, status, resp)
}

// clientMessage strips the wrapped sentinel suffix so "plan 123: requested item
// not found" is rendered as "plan 123 not found".
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrNotFound, ErrConflict, ErrUnauthenticated, ErrForbidden} {
		if errors.Is(err, sentinel) {
			prefix, found := strings.CutSuffix(msg, ": "+sentinel.Error())
			if !found || prefix == "" {
				return msg
			}
			switch sentinel {
			case ErrNotFound:
				return prefix + " not found"
			case ErrConflict:
				return prefix + " already exists"
			default:
				return prefix
			}
		}
	}
	return msg
}

// Errorf wraps a sentinel with a formatted subject, e.g. Errorf(ErrNotFound, "session %s", id).
func Errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
