package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api *slack.Client
}

// Option is a functional option for client configuration
type Option func(*clientConfig)

type clientConfig struct {
	apiURL string
}

// WithAPIURL overrides the Slack API endpoint, e.g. for a local test server
func WithAPIURL(url string) Option {
	return func(c *clientConfig) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var apiOpts []slack.Option
	if cfg.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &client{
		api: slack.New(token, apiOpts...),
	}, nil
}

// PostMessage posts a Block Kit message to the channel
func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	if channelID == "" {
		return "", goerr.New("channel ID is required")
	}

	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message to Slack", goerr.V("channel_id", channelID))
	}

	return ts, nil
}
