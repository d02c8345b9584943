package service

import "github.com/berrylearn/badge-hub/internal/domain/shared"

// StaticCurriculum implements saga.Curriculum from a fixed per-locale table
// of starter-project assignment counts. Locales without an entry fall back
// to the default count; a non-positive count means the starter project is
// not offered for that locale and the first-project flag never completes.
type StaticCurriculum struct {
	byLocale     map[string]int
	defaultCount int
}

// NewStaticCurriculum creates a curriculum table. The map is keyed by full
// locale code, e.g. "hu-HU".
func NewStaticCurriculum(byLocale map[string]int, defaultCount int) *StaticCurriculum {
	if byLocale == nil {
		byLocale = make(map[string]int)
	}
	return &StaticCurriculum{byLocale: byLocale, defaultCount: defaultCount}
}

// StarterAssignmentCount returns the starter-project size for a locale.
func (c *StaticCurriculum) StarterAssignmentCount(locale shared.Locale) int {
	if count, ok := c.byLocale[locale.Code]; ok {
		return count
	}
	return c.defaultCount
}
