package interfaces

import (
	"context"

	"github.com/secmon-lab/formgate/pkg/domain/model"
)

// SubmissionNotifier tells the form owner about a new submission
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, form *model.Form, submission *model.Submission) error
}
