// Package auth reads the signed session cookie issued by the login service
// and turns it into the request actor.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/codr1/mphcourts/internal/api/authz"
	"github.com/codr1/mphcourts/internal/config"
)

const (
	authCookieName    = "mph_auth"
	authSessionTTL    = 8 * time.Hour
	sessionTypeAdmin  = "admin"
	sessionTypeMember = "member"
)

var errAuthConfigMissing = errors.New("auth configuration missing")

var (
	appConfig  *config.Config
	configOnce sync.Once
)

type authSession struct {
	UserID      int64  `json:"user_id"`
	SessionType string `json:"session_type"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	ExpiresAt   int64  `json:"exp"`
}

// Init must be called during server startup before handling requests.
func Init(cfg *config.Config) {
	if cfg == nil {
		return
	}
	configOnce.Do(func() {
		appConfig = cfg
	})
}

func isSecureCookie() bool {
	return appConfig == nil || appConfig.App.Environment != "development"
}

// SetAuthCookie signs a session for actor. The login service and tests use
// it; this service itself only verifies cookies.
func SetAuthCookie(w http.ResponseWriter, actor authz.Actor) error {
	if w == nil || actor.ID <= 0 {
		return errors.New("auth session requires response and a signed-in actor")
	}

	expiresAt := time.Now().Add(authSessionTTL).Unix()
	value, err := encodeSession(authSession{
		UserID:      actor.ID,
		SessionType: sessionTypeFromKind(actor.Kind),
		Name:        actor.Name,
		Email:       actor.Email,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(expiresAt, 0),
		MaxAge:   int(authSessionTTL.Seconds()),
	})
	return nil
}

// ActorFromRequest returns nil without error when the request carries no
// session cookie.
func ActorFromRequest(r *http.Request) (*authz.Actor, error) {
	session, err := parseAuthCookie(r)
	if err != nil || session == nil {
		return nil, err
	}

	kind := authz.KindUser
	if session.SessionType == sessionTypeAdmin {
		kind = authz.KindAdmin
	}
	return &authz.Actor{
		Kind:  kind,
		ID:    session.UserID,
		Name:  session.Name,
		Email: session.Email,
	}, nil
}

func encodeSession(session authSession) (string, error) {
	session.SessionType = normalizeSessionType(session.SessionType)
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		return "", err
	}
	return encodedPayload + "." + signature, nil
}

func parseAuthCookie(r *http.Request) (*authSession, error) {
	if r == nil {
		return nil, nil
	}

	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	if appConfig == nil || appConfig.App.SecretKey == "" {
		return nil, errAuthConfigMissing
	}

	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid auth cookie")
	}

	encodedPayload := parts[0]
	signature := parts[1]
	expectedSignature, err := signPayload(encodedPayload)
	if err != nil {
		return nil, err
	}

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, errors.New("invalid auth cookie signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, err
	}

	var session authSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}

	session.SessionType = normalizeSessionType(session.SessionType)

	if session.ExpiresAt <= time.Now().Unix() {
		return nil, errors.New("auth session expired")
	}
	if session.UserID <= 0 {
		return nil, errors.New("auth session has no user")
	}

	return &session, nil
}

func normalizeSessionType(sessionType string) string {
	switch sessionType {
	case sessionTypeAdmin, sessionTypeMember:
		return sessionType
	default:
		return sessionTypeMember
	}
}

func sessionTypeFromKind(kind authz.Kind) string {
	if kind == authz.KindAdmin {
		return sessionTypeAdmin
	}
	return sessionTypeMember
}

func signPayload(payload string) (string, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return "", errAuthConfigMissing
	}

	mac := hmac.New(sha256.New, []byte(appConfig.App.SecretKey))
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
