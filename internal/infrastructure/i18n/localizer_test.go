package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

func TestTranslate_HungarianCatalog(t *testing.T) {
	loc := NewLocalizer()
	hu := shared.Locale{Code: "hu-HU", TimeZone: "Europe/Budapest"}

	assert.Equal(t, "Kitartó", loc.Translate("Persistent", hu))
	assert.Equal(t, "Éjjeli bagoly", loc.Translate("Night Owl", hu))
}

func TestTranslate_EnglishPassthrough(t *testing.T) {
	loc := NewLocalizer()
	en := shared.Locale{Code: "en-US", TimeZone: "UTC"}

	assert.Equal(t, "Night Owl", loc.Translate("Night Owl", en))
}

func TestTranslate_MissingPhraseFallsBack(t *testing.T) {
	loc := NewLocalizer()
	hu := shared.Locale{Code: "hu-HU", TimeZone: "Europe/Budapest"}

	assert.Equal(t, "No Such Badge", loc.Translate("No Such Badge", hu))
}

func TestTranslate_CustomCatalog(t *testing.T) {
	loc := NewLocalizer()
	loc.AddCatalog("de", map[string]string{"Night Owl": "Nachteule"})
	de := shared.Locale{Code: "de-DE", TimeZone: "Europe/Berlin"}

	assert.Equal(t, "Nachteule", loc.Translate("Night Owl", de))
}
