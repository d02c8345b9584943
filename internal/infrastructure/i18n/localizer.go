// Package i18n implements an in-memory phrase-catalog localizer for badge
// copy. English phrases are the catalog keys themselves; other locales map
// phrase → translation and fall back to the key when a phrase is missing.
package i18n

import (
	"strings"
	"sync"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// Localizer implements badge.Localizer over per-language phrase catalogs.
type Localizer struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
}

// NewLocalizer creates a localizer with the built-in catalogs.
func NewLocalizer() *Localizer {
	return &Localizer{
		catalogs: map[string]map[string]string{
			"hu": hungarianCatalog,
		},
	}
}

// AddCatalog registers or extends a phrase catalog for a language code
// ("hu", "de"). Later entries win.
func (l *Localizer) AddCatalog(language string, phrases map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	catalog, ok := l.catalogs[language]
	if !ok {
		catalog = make(map[string]string, len(phrases))
		l.catalogs[language] = catalog
	}
	for phrase, translation := range phrases {
		catalog[phrase] = translation
	}
}

// Translate returns the phrase in the given locale, falling back to the
// phrase itself when no translation exists. The catalog is keyed by the
// language half of the locale code, so "hu-HU" resolves the "hu" catalog.
func (l *Localizer) Translate(phrase string, locale shared.Locale) string {
	language := locale.Language()
	if language == "" || strings.EqualFold(language, "en") {
		return phrase
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if catalog, ok := l.catalogs[language]; ok {
		if translation, ok := catalog[phrase]; ok {
			return translation
		}
	}
	return phrase
}
