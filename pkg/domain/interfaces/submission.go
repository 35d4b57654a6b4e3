package interfaces

import (
	"context"

	"github.com/secmon-lab/formgate/pkg/domain/model"
)

// SubmissionRepository is the append-only collection of form submissions
type SubmissionRepository interface {
	// Append adds a submission without reading or rewriting the others.
	// Concurrent appends to the same form never overwrite each other.
	Append(ctx context.Context, submission *model.Submission) (*model.Submission, error)

	// List returns the submissions of a form, oldest first
	List(ctx context.Context, formID string) ([]*model.Submission, error)

	// Count returns the number of submissions of a form without reading them
	Count(ctx context.Context, formID string) (int64, error)

	// DeleteByForm removes every submission of a form and returns how many
	// were deleted
	DeleteByForm(ctx context.Context, formID string) (int, error)
}
