package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/mphcourts/internal/api/authz"
	"github.com/codr1/mphcourts/internal/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func withActor(r *http.Request, actor *authz.Actor) *http.Request {
	return r.WithContext(authz.ContextWithActor(r.Context(), actor))
}

func TestWithRequestIDSetsHeaderAndContext(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected request id in header and context, got %q and %q", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestWithAuthDefaultsToAnonymous(t *testing.T) {
	var actor *authz.Actor
	h := WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = authz.ActorFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if actor == nil || actor.Kind != authz.KindAnonymous {
		t.Fatalf("expected anonymous actor, got %+v", actor)
	}
}

func TestWithAdminAuth(t *testing.T) {
	tests := []struct {
		name  string
		actor *authz.Actor
		want  int
	}{
		{"anonymous", &authz.Actor{Kind: authz.KindAnonymous}, http.StatusUnauthorized},
		{"member", &authz.Actor{Kind: authz.KindUser, ID: 5}, http.StatusForbidden},
		{"admin", &authz.Actor{Kind: authz.KindAdmin, ID: 1}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WithAdminAuth(okHandler()).ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/", nil), tt.actor))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestWithRateLimitCountsMutationsOnly(t *testing.T) {
	limiter := ratelimit.New(&ratelimit.Config{
		Window:       time.Minute,
		MaxPerWindow: 2,
		Clock:        &stepClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	})
	defer limiter.Close()
	h := WithRateLimit(limiter, false)(okHandler())
	member := &authz.Actor{Kind: authz.KindUser, ID: 7}

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil), member))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("reads must not be limited, got %d", rec.Code)
		}
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil), member))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Fatal("expected Retry-After header")
		}
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil), &authz.Actor{Kind: authz.KindUser, ID: 8}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("another member has a separate budget, got %d", rec.Code)
	}
}

func TestWithRecoveryReturns500(t *testing.T) {
	h := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestChainMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := ChainMiddleware(okHandler(), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("unexpected order %v", order)
	}
}
