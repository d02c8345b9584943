// Package service adapts infrastructure clients to the collaborator
// interfaces the application layer defines.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/infrastructure/external/slack"
)

// showcaseColor is the attachment bar color of showcase posts.
const showcaseColor = "#FF8C00"

// ShowcaseSlackNotifier adapts the slack.Client to command.ShowcaseNotifier.
// It posts shared submissions to the student showcase channel.
type ShowcaseSlackNotifier struct {
	client *slack.Client
}

// NewShowcaseSlackNotifier creates a new ShowcaseSlackNotifier.
func NewShowcaseSlackNotifier(client *slack.Client) *ShowcaseSlackNotifier {
	return &ShowcaseSlackNotifier{client: client}
}

// ShareSubmission posts the submitted value to the showcase channel.
func (n *ShowcaseSlackNotifier) ShareSubmission(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID, assignmentID shared.AssignmentID, value string) error {
	msg := slack.Message{
		Text: fmt.Sprintf("New Submission on *%s: %s*", lessonID, assignmentID),
		Attachments: []slack.Attachment{
			{
				Color:     showcaseColor,
				Text:      value,
				Footer:    string(learnerID),
				Timestamp: time.Now().Unix(),
			},
		},
	}
	return n.client.Post(ctx, msg)
}

// UnlockSlackNotifier adapts the slack.Client to saga.UnlockNotifier.
// It announces freshly unlocked badges in one message per evaluation run.
type UnlockSlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewUnlockSlackNotifier creates a new UnlockSlackNotifier posting to the
// given channel (empty means the client's default).
func NewUnlockSlackNotifier(client *slack.Client, channel string) *UnlockSlackNotifier {
	return &UnlockSlackNotifier{client: client, channel: channel}
}

// NotifyBadgeUnlocks posts one announcement for all badges unlocked in a
// single evaluation run.
func (n *UnlockSlackNotifier) NotifyBadgeUnlocks(ctx context.Context, learnerID shared.LearnerID, unlocked []badge.View) error {
	if len(unlocked) == 0 {
		return nil
	}

	names := make([]string, len(unlocked))
	attachments := make([]slack.Attachment, len(unlocked))
	for i, v := range unlocked {
		names[i] = v.LocalizedName
		attachments[i] = slack.Attachment{
			Color:     showcaseColor,
			Title:     v.LocalizedName,
			Text:      v.LocalizedFlavor,
			Footer:    string(v.ConditionKey),
			Timestamp: time.Now().Unix(),
		}
	}

	msg := slack.Message{
		Channel:     n.channel,
		Text:        fmt.Sprintf("Badge unlocked for *%s*: %s", learnerID, strings.Join(names, ", ")),
		Attachments: attachments,
	}
	return n.client.Post(ctx, msg)
}
