package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

func TestCatalogIsValid(t *testing.T) {
	r, err := NewRegistry(Catalog())
	require.NoError(t, err)
	assert.Equal(t, 42, r.Len())
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		defs := []Definition{
			streakBadge(1, "streak3Days", "A", "t", "f", "/a.png", 3),
			streakBadge(1, "streak7Days", "B", "t", "f", "/b.png", 7),
		}
		_, err := NewRegistry(defs)
		assert.ErrorIs(t, err, shared.ErrDuplicateBadgeID)
	})

	t.Run("duplicate condition key", func(t *testing.T) {
		defs := []Definition{
			streakBadge(1, "streak3Days", "A", "t", "f", "/a.png", 3),
			streakBadge(2, "streak3Days", "B", "t", "f", "/b.png", 7),
		}
		_, err := NewRegistry(defs)
		assert.ErrorIs(t, err, shared.ErrDuplicateCondition)
	})
}

func TestRegistryLookups(t *testing.T) {
	r := MustNewRegistry(Catalog())
	locale := shared.DefaultLocale

	t.Run("all returns catalog order", func(t *testing.T) {
		views := r.All(nil, locale)
		require.Len(t, views, 42)
		assert.Equal(t, shared.BadgeID(1), views[0].ID)
		assert.Equal(t, "Persistent", views[0].LocalizedName)
	})

	t.Run("by ids preserves input order", func(t *testing.T) {
		views, err := r.ByIDs([]shared.BadgeID{38, 1, 12}, nil, locale)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, shared.BadgeID(38), views[0].ID)
		assert.Equal(t, shared.BadgeID(1), views[1].ID)
		assert.Equal(t, shared.BadgeID(12), views[2].ID)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		_, err := r.ByID(9999, nil, locale)
		assert.ErrorIs(t, err, shared.ErrBadgeNotFound)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("id by condition key", func(t *testing.T) {
		id, err := r.IDByConditionKey("submissionMadeOnFridayThe13th")
		require.NoError(t, err)
		assert.Equal(t, shared.BadgeID(38), id)
	})

	t.Run("unused condition key fails loudly", func(t *testing.T) {
		_, err := r.IDByConditionKey("notAConditionAnyoneUses")
		assert.ErrorIs(t, err, shared.ErrConditionKeyNotFound)
	})

	t.Run("completion state", func(t *testing.T) {
		target, err := r.CompletionState(2)
		require.NoError(t, err)
		assert.Equal(t, 7, target)
	})

	t.Run("hidden badges stay available for evaluation", func(t *testing.T) {
		d, err := r.Definition(39)
		require.NoError(t, err)
		assert.True(t, d.Hidden)
		assert.True(t, d.Available)
	})
}

type upperLocalizer struct{}

func (upperLocalizer) Translate(phrase string, _ shared.Locale) string {
	return "##" + phrase
}

func TestRegistryLocalization(t *testing.T) {
	r := MustNewRegistry(Catalog())

	views, err := r.ByIDs([]shared.BadgeID{1}, upperLocalizer{}, shared.DefaultLocale)
	require.NoError(t, err)
	assert.Equal(t, "##Persistent", views[0].LocalizedName)
	assert.Equal(t, "Persistent", views[0].Name)
}
