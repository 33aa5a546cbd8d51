// Package prefs stores the small client preferences the dashboards read:
// onboarding-tour flags, the map widget token and the UI language.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"opengov/api/internal/identity"
	"opengov/api/internal/kv"
)

const (
	mapboxTokenKey = "mapbox_token"
	languageKey    = "language"
)

// Languages the client ships translations for.
var supportedLanguages = map[string]struct{}{
	"en": {},
	"es": {},
	"fr": {},
}

const DefaultLanguage = "en"

var ErrUnsupportedLanguage = errors.New("prefs: unsupported language")

type Prefs struct {
	store kv.Store
}

func New(store kv.Store) *Prefs {
	return &Prefs{store: store}
}

func tourKey(role identity.Role) string {
	return "tour_seen:" + string(role)
}

// TourSeen reports whether the onboarding tour was dismissed for role.
func (p *Prefs) TourSeen(ctx context.Context, role identity.Role) (bool, error) {
	raw, ok, err := p.store.Get(ctx, tourKey(role))
	if err != nil {
		return false, err
	}
	return ok && string(raw) == "true", nil
}

func (p *Prefs) MarkTourSeen(ctx context.Context, role identity.Role) error {
	return p.store.Set(ctx, tourKey(role), []byte("true"))
}

// MapboxToken returns the stored token, empty when unset. The token is
// opaque here; only the map client interprets it.
func (p *Prefs) MapboxToken(ctx context.Context) (string, error) {
	raw, _, err := p.store.Get(ctx, mapboxTokenKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (p *Prefs) SetMapboxToken(ctx context.Context, token string) error {
	return p.store.Set(ctx, mapboxTokenKey, []byte(token))
}

func (p *Prefs) Language(ctx context.Context) (string, error) {
	raw, ok, err := p.store.Get(ctx, languageKey)
	if err != nil {
		return "", err
	}
	if !ok || len(raw) == 0 {
		return DefaultLanguage, nil
	}
	return string(raw), nil
}

func (p *Prefs) SetLanguage(ctx context.Context, language string) error {
	if _, ok := supportedLanguages[language]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return p.store.Set(ctx, languageKey, []byte(language))
}
