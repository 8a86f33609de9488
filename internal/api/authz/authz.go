package authz

import (
	"context"
	"errors"

	"github.com/codr1/mphcourts/internal/booking"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

type Kind string

const (
	KindAnonymous Kind = "anonymous"
	KindUser      Kind = "user"
	KindAdmin     Kind = "admin"
)

// Actor is the caller of the current request as reported by the login
// service.
type Actor struct {
	Kind  Kind
	ID    int64
	Name  string
	Email string
}

type actorContextKey struct{}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext retrieves the Actor stored in ctx.
// It returns nil if ctx is nil, if no actor is stored, or if the stored value has a different type.
func ActorFromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}

	actor, ok := ctx.Value(actorContextKey{}).(*Actor)
	if !ok {
		return nil
	}

	return actor
}

// CurrentActor never returns nil; a request without a session is anonymous.
func CurrentActor(ctx context.Context) Actor {
	if actor := ActorFromContext(ctx); actor != nil {
		return *actor
	}
	return Actor{Kind: KindAnonymous}
}

func IsAdmin(actor *Actor) bool {
	return actor != nil && actor.Kind == KindAdmin
}

// RequireUser accepts members and admins.
func RequireUser(ctx context.Context) (Actor, error) {
	actor := CurrentActor(ctx)
	if actor.Kind == KindAnonymous || actor.ID <= 0 {
		return actor, ErrUnauthenticated
	}
	return actor, nil
}

func RequireAdmin(ctx context.Context) (Actor, error) {
	actor, err := RequireUser(ctx)
	if err != nil {
		return actor, err
	}
	if actor.Kind != KindAdmin {
		return actor, ErrForbidden
	}
	return actor, nil
}

// BookingActor converts the request actor into the identity stamped on
// bookings and blocks.
func (a Actor) BookingActor() booking.Actor {
	return booking.Actor{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Admin: a.Kind == KindAdmin,
	}
}
