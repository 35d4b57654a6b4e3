package slack

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackutilsx"
)

// maxValueBytes keeps a single answer well under the 2000 character limit
// of a section field.
const maxValueBytes = 300

func buildSubmissionBlocks(form *model.Form, submission *model.Submission, baseURL string, maxFields int) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes("New response: "+form.Title, 150), false, false),
	)

	labels := make(map[string]string, len(form.Fields))
	for i := range form.Fields {
		labels[form.Fields[i].ID] = form.Fields[i].DisplayLabel()
	}

	var fields []*slack.TextBlockObject
	for i, record := range submission.Data {
		if maxFields > 0 && i >= maxFields {
			break
		}
		label, ok := labels[record.FieldID]
		if !ok {
			label = record.FieldID
		}
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%s*\n%s", slackutilsx.EscapeMessage(label), summarizeValue(record.Value)), false, false))
	}

	blocks := []slack.Block{header}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}
	if rest := len(submission.Data) - len(fields); rest > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("_and %d more answers_", rest), false, false),
			nil, nil))
	}

	contextText := fmt.Sprintf("Submitted at %s", submission.SubmittedAt.UTC().Format(time.RFC3339))
	if baseURL != "" {
		contextText += fmt.Sprintf(" | <%s/form/%s|Open form>", strings.TrimRight(baseURL, "/"), form.Token)
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, contextText, false, false)))

	return blocks
}

// summarizeValue renders an answer as mrkdwn. Data URIs are not posted, and
// answers are escaped so they cannot mention or link.
func summarizeValue(v model.AnswerValue) string {
	s := v.String()
	if strings.HasPrefix(s, "data:") {
		return "_(file attached)_"
	}
	if s == "" {
		return "-"
	}
	return slackutilsx.EscapeMessage(truncateToMaxBytes(s, maxValueBytes))
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8
// sequence, marking the cut with an ellipsis.
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "…"
	cut := maxBytes - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
