package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireUserUnauthenticated(t *testing.T) {
	_, err := RequireUser(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	ctx := ContextWithActor(context.Background(), &Actor{Kind: KindAnonymous})
	if _, err := RequireUser(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous actor, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		actor   *Actor
		wantErr error
	}{
		{"no actor", nil, ErrUnauthenticated},
		{"member", &Actor{Kind: KindUser, ID: 7}, ErrForbidden},
		{"admin without id", &Actor{Kind: KindAdmin}, ErrUnauthenticated},
		{"admin", &Actor{Kind: KindAdmin, ID: 1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.actor != nil {
				ctx = ContextWithActor(ctx, tt.actor)
			}
			_, err := RequireAdmin(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBookingActor(t *testing.T) {
	actor := Actor{Kind: KindAdmin, ID: 3, Name: "Front Desk", Email: "desk@example.com"}
	got := actor.BookingActor()
	if got.ID != 3 || !got.Admin || got.Name != "Front Desk" || got.Email != "desk@example.com" {
		t.Fatalf("unexpected booking actor: %+v", got)
	}
	if (Actor{Kind: KindUser, ID: 4}).BookingActor().Admin {
		t.Fatal("member must not be stamped as admin")
	}
}

func TestCurrentActorDefaultsToAnonymous(t *testing.T) {
	if got := CurrentActor(context.Background()); got.Kind != KindAnonymous {
		t.Fatalf("expected anonymous actor, got %+v", got)
	}
}
