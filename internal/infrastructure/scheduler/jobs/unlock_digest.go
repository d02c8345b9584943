// Package jobs contains implementations of scheduled jobs for BerryLearn Badge Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/infrastructure/external/slack"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNLOCK DIGEST JOB
// ══════════════════════════════════════════════════════════════════════════════

// UnlockDigestJob posts a daily summary of badge activity to Slack: how
// many badges were unlocked over the reporting window and which badges
// were earned most. A window with zero unlocks posts nothing.
type UnlockDigestJob struct {
	stats    badge.UnlockStats
	registry *badge.Registry
	client   *slack.Client
	logger   *slog.Logger
	config   UnlockDigestConfig

	lastRun atomic.Value // *DigestStats
}

// UnlockDigestConfig contains configuration for the digest job.
type UnlockDigestConfig struct {
	// Window is the reporting period the digest covers.
	Window time.Duration

	// TopBadges is how many leading badges to name in the digest.
	TopBadges int

	// Channel overrides the Slack client's default channel when set.
	Channel string

	// Timeout is the maximum duration for one digest run.
	Timeout time.Duration
}

// DefaultUnlockDigestConfig returns sensible defaults.
func DefaultUnlockDigestConfig() UnlockDigestConfig {
	return UnlockDigestConfig{
		Window:    24 * time.Hour,
		TopBadges: 5,
		Timeout:   time.Minute,
	}
}

// DigestStats describes the outcome of the last digest run.
type DigestStats struct {
	RanAt        time.Time
	TotalUnlocks int
	Posted       bool
}

// NewUnlockDigestJob creates a new digest job.
func NewUnlockDigestJob(
	stats badge.UnlockStats,
	registry *badge.Registry,
	client *slack.Client,
	logger *slog.Logger,
	config UnlockDigestConfig,
) *UnlockDigestJob {
	return &UnlockDigestJob{
		stats:    stats,
		registry: registry,
		client:   client,
		logger:   logger.With("job", "unlock_digest"),
		config:   config,
	}
}

// Name implements scheduler.Job.
func (j *UnlockDigestJob) Name() string {
	return "unlock_digest"
}

// Description implements scheduler.Job.
func (j *UnlockDigestJob) Description() string {
	return "Posts a daily summary of badge unlocks to Slack"
}

// Run implements scheduler.Job.
func (j *UnlockDigestJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	since := time.Now().Add(-j.config.Window)

	total, err := j.stats.CountSince(ctx, since)
	if err != nil {
		return fmt.Errorf("count unlocks: %w", err)
	}

	stats := &DigestStats{RanAt: time.Now().UTC(), TotalUnlocks: total}
	defer j.lastRun.Store(stats)

	if total == 0 {
		j.logger.Info("no unlocks in digest window, skipping post")
		return nil
	}

	tallies, err := j.stats.TopSince(ctx, since, j.config.TopBadges)
	if err != nil {
		return fmt.Errorf("top unlocks: %w", err)
	}

	msg := slack.Message{
		Channel: j.config.Channel,
		Text:    fmt.Sprintf("*%d* badges unlocked in the last %s", total, formatWindow(j.config.Window)),
		Attachments: []slack.Attachment{
			{
				Title:     "Most earned",
				Text:      j.formatTallies(tallies),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	if err := j.client.Post(ctx, msg); err != nil {
		return fmt.Errorf("post digest: %w", err)
	}

	stats.Posted = true
	j.logger.Info("unlock digest posted", "total_unlocks", total, "top_badges", len(tallies))
	return nil
}

// LastRunStats returns the stats of the most recent run, or nil.
func (j *UnlockDigestJob) LastRunStats() *DigestStats {
	if v := j.lastRun.Load(); v != nil {
		return v.(*DigestStats)
	}
	return nil
}

func (j *UnlockDigestJob) formatTallies(tallies []badge.UnlockTally) string {
	lines := make([]string, 0, len(tallies))
	for _, t := range tallies {
		name := j.badgeName(t.BadgeID)
		lines = append(lines, fmt.Sprintf("%s: %d", name, t.Count))
	}
	return strings.Join(lines, "\n")
}

func (j *UnlockDigestJob) badgeName(id shared.BadgeID) string {
	d, err := j.registry.Definition(id)
	if err != nil {
		return fmt.Sprintf("badge #%d", id.Int())
	}
	return d.Name
}

func formatWindow(w time.Duration) string {
	if w%(24*time.Hour) == 0 {
		days := int(w / (24 * time.Hour))
		if days == 1 {
			return "24 hours"
		}
		return fmt.Sprintf("%d days", days)
	}
	return w.String()
}
