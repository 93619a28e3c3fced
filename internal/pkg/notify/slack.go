package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier posts short text notices to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type messagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type Slack struct {
	client    messagePoster
	channelID string
}

func NewSlack(token, channelID string) *Slack {
	return &Slack{client: slack.New(token), channelID: channelID}
}

func (s *Slack) Notify(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}
