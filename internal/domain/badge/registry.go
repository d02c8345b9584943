package badge

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ═══════════════════════════════════════════════════════════════════════════
// Badge registry
// ═══════════════════════════════════════════════════════════════════════════

// Localizer translates catalog phrases. The default English catalog phrases
// are the lookup keys, so a missing translation falls back to them.
type Localizer interface {
	Translate(phrase string, locale shared.Locale) string
}

// View is a definition with its display text resolved for one locale.
type View struct {
	Definition
	LocalizedName   string
	LocalizedTask   string
	LocalizedFlavor string
}

// Registry is the immutable badge catalog with lookup indexes. Build it once
// at startup; all read operations are pure and safe for concurrent use.
type Registry struct {
	ordered     []Definition
	byID        map[shared.BadgeID]Definition
	byCondition map[shared.ConditionKey]Definition
}

// NewRegistry indexes the definitions and enforces the catalog invariants:
// IDs and condition keys are unique.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		ordered:     make([]Definition, len(defs)),
		byID:        make(map[shared.BadgeID]Definition, len(defs)),
		byCondition: make(map[shared.ConditionKey]Definition, len(defs)),
	}
	copy(r.ordered, defs)

	for _, d := range defs {
		if !d.ID.IsValid() {
			return nil, fmt.Errorf("badge %q: %w", d.Name, shared.ErrInvalidBadgeID)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("badge id %d: %w", d.ID, shared.ErrDuplicateBadgeID)
		}
		if _, dup := r.byCondition[d.ConditionKey]; dup {
			return nil, fmt.Errorf("condition %q: %w", d.ConditionKey, shared.ErrDuplicateCondition)
		}
		r.byID[d.ID] = d
		r.byCondition[d.ConditionKey] = d
	}
	return r, nil
}

// MustNewRegistry panics on an invalid catalog. Intended for the static
// product catalog, where a broken catalog is a programming error.
func MustNewRegistry(defs []Definition) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// All returns every definition localized for the locale, in catalog order.
func (r *Registry) All(loc Localizer, locale shared.Locale) []View {
	return lo.Map(r.ordered, func(d Definition, _ int) View {
		return localize(d, loc, locale)
	})
}

// ByIDs resolves and localizes the given badge ids, preserving input order.
// An unknown id fails the whole call.
func (r *Registry) ByIDs(ids []shared.BadgeID, loc Localizer, locale shared.Locale) ([]View, error) {
	views := make([]View, 0, len(ids))
	for _, id := range ids {
		d, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("badge id %d: %w", id, shared.ErrBadgeNotFound)
		}
		views = append(views, localize(d, loc, locale))
	}
	return views, nil
}

// ByID resolves and localizes one badge.
func (r *Registry) ByID(id shared.BadgeID, loc Localizer, locale shared.Locale) (View, error) {
	d, ok := r.byID[id]
	if !ok {
		return View{}, fmt.Errorf("badge id %d: %w", id, shared.ErrBadgeNotFound)
	}
	return localize(d, loc, locale), nil
}

// Definition returns the raw definition for an id.
func (r *Registry) Definition(id shared.BadgeID) (Definition, error) {
	d, ok := r.byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("badge id %d: %w", id, shared.ErrBadgeNotFound)
	}
	return d, nil
}

// CompletionState returns the numeric target for a badge.
func (r *Registry) CompletionState(id shared.BadgeID) (int, error) {
	d, ok := r.byID[id]
	if !ok {
		return 0, fmt.Errorf("badge id %d: %w", id, shared.ErrBadgeNotFound)
	}
	return d.Target, nil
}

// ProgressState returns the live progress value of a badge against the
// given snapshot, clamped nowhere: callers compare it to CompletionState.
func (r *Registry) ProgressState(id shared.BadgeID, s stats.Snapshot) (int, error) {
	d, ok := r.byID[id]
	if !ok {
		return 0, fmt.Errorf("badge id %d: %w", id, shared.ErrBadgeNotFound)
	}
	return d.Progress(s), nil
}

// IDByConditionKey resolves a badge id from its condition key. Condition keys
// are registry-internal, so a miss is a programming error, reported loudly.
func (r *Registry) IDByConditionKey(key shared.ConditionKey) (shared.BadgeID, error) {
	d, ok := r.byCondition[key]
	if !ok {
		return 0, fmt.Errorf("condition %q: %w", key, shared.ErrConditionKeyNotFound)
	}
	return d.ID, nil
}

// Available returns the definitions eligible for evaluation, in catalog order.
func (r *Registry) Available() []Definition {
	return lo.Filter(r.ordered, func(d Definition, _ int) bool {
		return d.Available
	})
}

func localize(d Definition, loc Localizer, locale shared.Locale) View {
	v := View{
		Definition:      d,
		LocalizedName:   d.Name,
		LocalizedTask:   d.Task,
		LocalizedFlavor: d.FlavorText,
	}
	if loc != nil {
		v.LocalizedName = loc.Translate(d.Name, locale)
		v.LocalizedTask = loc.Translate(d.Task, locale)
		v.LocalizedFlavor = loc.Translate(d.FlavorText, locale)
	}
	return v
}

func mustBadgeID(id int) shared.BadgeID {
	b, err := shared.NewBadgeID(id)
	if err != nil {
		panic(err)
	}
	return b
}

func mustConditionKey(key string) shared.ConditionKey {
	c := shared.ConditionKey(key)
	if !c.IsValid() {
		panic(fmt.Sprintf("invalid condition key %q", key))
	}
	return c
}
