package prefs

import (
	"context"
	"errors"
	"testing"

	"opengov/api/internal/identity"
	"opengov/api/internal/kv"
)

func TestTourSeenPerRole(t *testing.T) {
	p := New(kv.NewMemory())
	ctx := context.Background()

	seen, err := p.TourSeen(ctx, identity.RoleCitizen)
	if err != nil {
		t.Fatalf("TourSeen failed: %v", err)
	}
	if seen {
		t.Error("expected tour unseen initially")
	}

	if err := p.MarkTourSeen(ctx, identity.RoleCitizen); err != nil {
		t.Fatalf("MarkTourSeen failed: %v", err)
	}

	seen, err = p.TourSeen(ctx, identity.RoleCitizen)
	if err != nil {
		t.Fatalf("TourSeen failed: %v", err)
	}
	if !seen {
		t.Error("expected tour seen after marking")
	}

	// The flag is scoped per role.
	seen, err = p.TourSeen(ctx, identity.RoleAuthority)
	if err != nil {
		t.Fatalf("TourSeen failed: %v", err)
	}
	if seen {
		t.Error("authority flag should be independent of citizen flag")
	}
}

func TestMapboxTokenRoundTrip(t *testing.T) {
	p := New(kv.NewMemory())
	ctx := context.Background()

	token, err := p.MapboxToken(ctx)
	if err != nil {
		t.Fatalf("MapboxToken failed: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}

	if err := p.SetMapboxToken(ctx, "pk.abc123"); err != nil {
		t.Fatalf("SetMapboxToken failed: %v", err)
	}
	token, err = p.MapboxToken(ctx)
	if err != nil {
		t.Fatalf("MapboxToken failed: %v", err)
	}
	if token != "pk.abc123" {
		t.Errorf("expected pk.abc123, got %q", token)
	}
}

func TestLanguageDefaultsAndValidation(t *testing.T) {
	p := New(kv.NewMemory())
	ctx := context.Background()

	language, err := p.Language(ctx)
	if err != nil {
		t.Fatalf("Language failed: %v", err)
	}
	if language != DefaultLanguage {
		t.Errorf("expected default %s, got %s", DefaultLanguage, language)
	}

	if err := p.SetLanguage(ctx, "de"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}

	if err := p.SetLanguage(ctx, "es"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	language, err = p.Language(ctx)
	if err != nil {
		t.Fatalf("Language failed: %v", err)
	}
	if language != "es" {
		t.Errorf("expected es, got %s", language)
	}
}
