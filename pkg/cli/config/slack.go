package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for completion notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("CONFORMITY_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives assessment summaries",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("CONFORMITY_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// ChannelID returns the notification channel
func (x *Slack) ChannelID() string {
	return x.channelID
}

// Configure creates the Slack service. It returns nil when notifications are
// not configured, and an error when only one of token and channel is set.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.New("both --slack-bot-token and --slack-channel-id are required for notifications")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
