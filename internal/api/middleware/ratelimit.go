package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campdir/bootcamp-api/internal/api/metrics"
	"github.com/campdir/bootcamp-api/internal/core/domain"
)

// AttemptLimiter throttles repeated attempts per caller key.
type AttemptLimiter interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
}

// RateLimit caps attempts on credential endpoints by client IP. The limiter
// failing (e.g. Redis down) does not block logins; the attempt is allowed and
// the failure is logged.
func RateLimit(limiter AttemptLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), scope, c.RealIP())
			if err != nil {
				log.Error().Err(err).Str("scope", scope).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
