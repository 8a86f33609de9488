// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mphcourts/internal/api/apiutil"
	"github.com/codr1/mphcourts/internal/api/auth"
	"github.com/codr1/mphcourts/internal/api/authz"
	"github.com/codr1/mphcourts/internal/ratelimit"
)

type Middleware func(http.Handler) http.Handler

type requestIDKey struct{}

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestIDFromContext returns "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				// Log the full stack trace
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				apiutil.WriteError(w, r, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		// Create a logger with the request ID
		logger := log.With().Str("request_id", requestID).Logger()

		// Add both the request ID and logger to context
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithAuth installs the session actor. A missing or bad cookie leaves the
// request anonymous.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromRequest(r)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load auth session")
		}
		if actor == nil {
			actor = &authz.Actor{Kind: authz.KindAnonymous}
		}

		ctx := authz.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserAuth rejects anonymous callers.
func WithUserAuth(next http.Handler) http.Handler {
	return requireActor(next, authz.RequireUser, "Member")
}

func WithAdminAuth(next http.Handler) http.Handler {
	return requireActor(next, authz.RequireAdmin, "Admin")
}

func requireActor(next http.Handler, check func(context.Context) (authz.Actor, error), role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())
		actor, err := check(r.Context())
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}

		logEvent := logger.Warn().Str("actor_kind", string(actor.Kind))
		if actor.ID > 0 {
			logEvent = logEvent.Int64("user_id", actor.ID)
		}
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logEvent.Msg(role + " access denied: unauthenticated")
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		default:
			logEvent.Msg(role + " access denied: forbidden")
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Forbidden", Err: err})
		}
	})
}

// WithRateLimit counts mutating requests per signed-in actor, or per client
// IP for anonymous callers. Reads pass through uncounted.
func WithRateLimit(limiter *ratelimit.Limiter, trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			identity := "ip:" + ratelimit.GetClientIP(r, trustProxy)
			if actor := authz.ActorFromContext(r.Context()); actor != nil && actor.ID > 0 {
				identity = "user:" + strconv.FormatInt(actor.ID, 10)
			}

			result := limiter.Allow(identity)
			if !result.Allowed {
				ratelimit.LogRateLimitExceeded(identity, r.URL.Path, result.RetryAfter)
				seconds := int(result.RetryAfter.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				apiutil.WriteError(w, r, apiutil.HandlerError{
					Status:  http.StatusTooManyRequests,
					Message: "Too many booking changes, try again shortly",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
