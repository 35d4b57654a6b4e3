package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack configures the optional submission notices
type Slack struct {
	botToken  string
	channelID string
	baseURL   string
	maxFields int
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post submission notices",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("FORMGATE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives submission notices",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("FORMGATE_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-base-url",
			Usage:       "Public URL linked from notices (e.g., https://forms.example.com)",
			Category:    "Slack",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("FORMGATE_SLACK_BASE_URL"),
		},
		&cli.IntFlag{
			Name:        "slack-max-fields",
			Usage:       "Maximum number of answers shown in one notice",
			Category:    "Slack",
			Value:       slack.DefaultMaxFields,
			Destination: &x.maxFields,
			Sources:     cli.EnvVars("FORMGATE_SLACK_MAX_FIELDS"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.String("base-url", x.baseURL),
	)
}

// IsConfigured reports whether notices are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channelID != ""
}

// Configure returns the notifier, or nil when Slack is not configured
func (x *Slack) Configure() (interfaces.SubmissionNotifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" || x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel-id are required for notices")
	}

	svc, err := slack.New(x.botToken, x.channelID,
		slack.WithBaseURL(x.baseURL),
		slack.WithMaxFields(x.maxFields),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
