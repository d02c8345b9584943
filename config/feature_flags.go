package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
// Supports per-learner targeting, locale-based experiments, and live
// percentage updates.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	learnerOverrides map[string]map[string]bool // learnerID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Learners are assigned based on hash of their ID
	RolloutPercent int

	// Locale targeting (e.g., "hu-HU", "en-US")
	// Empty means all locales
	TargetLocales []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	LearnerID string // Learner UUID

	Locale  string // Learner locale code (e.g., "hu-HU")
	IsAdmin bool   // Is admin user
}

// Predefined feature flag names.
const (
	// === Notification Features ===
	FeatureNotifySlackUnlocks = "notify.slack_unlocks" // Announce unlocks to Slack
	FeatureNotifyDailyDigest  = "notify.daily_digest"  // Daily unlock digest

	// === Showcase Features ===
	FeatureShowcaseSharing = "showcase.sharing" // Share selected submissions

	// === Badge Features ===
	FeatureBadgesHiddenReveal = "badges.hidden_reveal" // Show hidden badges once earned
	FeatureBadgesLocalized    = "badges.localized"     // Localized badge copy

	// === Infrastructure Features ===
	FeatureCacheLearners   = "cache.learners"     // Read-through learner cache
	FeatureAuditUnlocks    = "audit.unlocks"      // Persist the unlock trail
	FeatureExperimentalAPI = "experimental.stats" // Extended stats endpoints
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		learnerOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Notification features - careful defaults, badges should motivate not spam
	ff.features[FeatureNotifySlackUnlocks] = &Feature{
		Name:           FeatureNotifySlackUnlocks,
		Description:    "Announce badge unlocks in Slack",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyDailyDigest] = &Feature{
		Name:           FeatureNotifyDailyDigest,
		Description:    "Post the daily unlock digest",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Showcase - core to the original learning community
	ff.features[FeatureShowcaseSharing] = &Feature{
		Name:           FeatureShowcaseSharing,
		Description:    "Share selected submissions to the showcase channel",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Badge features
	ff.features[FeatureBadgesHiddenReveal] = &Feature{
		Name:           FeatureBadgesHiddenReveal,
		Description:    "Reveal hidden badges after they are earned",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBadgesLocalized] = &Feature{
		Name:           FeatureBadgesLocalized,
		Description:    "Serve localized badge copy",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Infrastructure features
	ff.features[FeatureCacheLearners] = &Feature{
		Name:           FeatureCacheLearners,
		Description:    "Serve learner reads through the Redis cache",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAuditUnlocks] = &Feature{
		Name:           FeatureAuditUnlocks,
		Description:    "Persist the badge unlock audit trail",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalAPI] = &Feature{
		Name:           FeatureExperimentalAPI,
		Description:    "Extended stats endpoints",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_SHOWCASE_SHARING=true
// Example: FEATURE_NOTIFY_DAILY_DIGEST=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "showcase.sharing" -> "FEATURE_SHOWCASE_SHARING"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check learner overrides first
	if ctx != nil && ctx.LearnerID != "" {
		if overrides, ok := ff.learnerOverrides[ctx.LearnerID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check locale targeting
	if len(feature.TargetLocales) > 0 && ctx != nil && ctx.Locale != "" {
		localeMatch := false
		for _, l := range feature.TargetLocales {
			if l == ctx.Locale {
				localeMatch = true
				break
			}
		}
		if !localeMatch {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.LearnerID != "" {
		return ff.isInRollout(ctx.LearnerID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a learner is in the rollout percentage.
// Uses consistent hashing so learners stay in their bucket.
func (ff *FeatureFlags) isInRollout(learnerID string, featureName string, percent int) bool {
	// Create a consistent hash for this learner+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(learnerID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a learner.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.LearnerID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetLearnerOverride sets a feature override for a specific learner.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetLearnerOverride(learnerID string, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.learnerOverrides[learnerID]; !ok {
		ff.learnerOverrides[learnerID] = make(map[string]bool)
	}
	ff.learnerOverrides[learnerID][featureName] = enabled
}

// ClearLearnerOverrides removes all overrides for a learner.
func (ff *FeatureFlags) ClearLearnerOverrides(learnerID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.learnerOverrides, learnerID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// NotificationsEnabled checks if any outbound notifications are enabled.
func (ff *FeatureFlags) NotificationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifySlackUnlocks, ctx) ||
		ff.IsEnabled(FeatureNotifyDailyDigest, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
