package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/mphcourts/internal/api/authz"
	"github.com/codr1/mphcourts/internal/config"
)

func useTestConfig(t *testing.T) {
	t.Helper()
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})
}

func TestActorFromRequestAdmin(t *testing.T) {
	useTestConfig(t)

	payloadBytes, err := json.Marshal(authSession{
		UserID:      42,
		SessionType: sessionTypeAdmin,
		Name:        "Front Desk",
		Email:       "desk@example.com",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	actor, err := ActorFromRequest(makeAuthRequest(t, payloadBytes))
	if err != nil {
		t.Fatalf("actor from request: %v", err)
	}
	if actor == nil {
		t.Fatal("expected actor, got nil")
	}
	if actor.Kind != authz.KindAdmin || actor.ID != 42 || actor.Email != "desk@example.com" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestActorFromRequestUnknownTypeIsMember(t *testing.T) {
	useTestConfig(t)

	payloadBytes, err := json.Marshal(authSession{
		UserID:      7,
		SessionType: "superuser",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	actor, err := ActorFromRequest(makeAuthRequest(t, payloadBytes))
	if err != nil {
		t.Fatalf("actor from request: %v", err)
	}
	if actor.Kind != authz.KindUser {
		t.Fatalf("expected member actor, got %q", actor.Kind)
	}
}

func TestActorFromRequestRejectsBadCookies(t *testing.T) {
	useTestConfig(t)

	expired, _ := json.Marshal(authSession{UserID: 1, ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	if _, err := ActorFromRequest(makeAuthRequest(t, expired)); err == nil {
		t.Fatal("expected expired session to be rejected")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":1,"exp":9999999999}`))
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: payload + ".forged"})
	if _, err := ActorFromRequest(req); err == nil {
		t.Fatal("expected forged signature to be rejected")
	}
}

func TestActorFromRequestWithoutCookie(t *testing.T) {
	useTestConfig(t)

	actor, err := ActorFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || actor != nil {
		t.Fatalf("expected no actor and no error, got %+v %v", actor, err)
	}
}

func TestSetAuthCookieRoundTrip(t *testing.T) {
	useTestConfig(t)

	rec := httptest.NewRecorder()
	if err := SetAuthCookie(rec, authz.Actor{Kind: authz.KindUser, ID: 9, Name: "Aoife"}); err != nil {
		t.Fatalf("set auth cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	actor, err := ActorFromRequest(req)
	if err != nil {
		t.Fatalf("actor from request: %v", err)
	}
	if actor.ID != 9 || actor.Kind != authz.KindUser || actor.Name != "Aoife" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func makeAuthRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + "." + signature,
	})

	return req
}
