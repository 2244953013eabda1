package appMiddleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/yuqiannemo/WanderMind/internal/api"
)

// ModelRateLimit caps requests per client IP on routes that call the
// generative model. A non-positive limit disables the check.
func ModelRateLimit(logger *slog.Logger, requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP, httprate.KeyByEndpoint),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Model route rate limit exceeded",
				slog.String("path", r.URL.Path), slog.String("remote_addr", r.RemoteAddr))
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests, please slow down")
		}),
	)
}
