package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/slack-go/slack"
)

const (
	// DefaultMaxFields is the default number of answers shown in a notice
	DefaultMaxFields = 10
)

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
	baseURL   string
	maxFields int
}

var _ Service = &client{}

// Option is a functional option for client configuration
type Option func(*client, *[]slack.Option)

// WithMaxFields limits how many answers are rendered in one notice
func WithMaxFields(n int) Option {
	return func(c *client, _ *[]slack.Option) {
		c.maxFields = n
	}
}

// WithBaseURL sets the public URL used to link the form in notices
func WithBaseURL(url string) Option {
	return func(c *client, _ *[]slack.Option) {
		c.baseURL = url
	}
}

// WithAPIURL overrides the Slack API endpoint
func WithAPIURL(url string) Option {
	return func(_ *client, opts *[]slack.Option) {
		*opts = append(*opts, slack.OptionAPIURL(url))
	}
}

// New creates a new Slack service posting to channelID with the provided bot token
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		channelID: channelID,
		maxFields: DefaultMaxFields,
	}

	var apiOpts []slack.Option
	for _, opt := range opts {
		opt(c, &apiOpts)
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// NotifySubmission posts a Block Kit summary of a new submission
func (c *client) NotifySubmission(ctx context.Context, form *model.Form, submission *model.Submission) error {
	blocks := buildSubmissionBlocks(form, submission, c.baseURL, c.maxFields)
	text := "New response to " + form.Title

	_, ts, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post submission notice",
			goerr.V("channel_id", c.channelID),
			goerr.V("form_id", form.ID),
			goerr.V("submission_id", submission.ID))
	}

	logging.From(ctx).Debug("posted submission notice",
		"channel_id", c.channelID,
		"form_id", form.ID,
		"ts", ts,
	)
	return nil
}
