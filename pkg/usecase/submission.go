package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/utils/async"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

// SubmissionUseCase serves published forms to anonymous submitters
type SubmissionUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.SubmissionNotifier
	now      func() time.Time
}

func NewSubmissionUseCase(repo interfaces.Repository, notifier interfaces.SubmissionNotifier, now func() time.Time) *SubmissionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SubmissionUseCase{repo: repo, notifier: notifier, now: now}
}

// getPublishedForm resolves a token. Drafts are reported as not found.
func (uc *SubmissionUseCase) getPublishedForm(ctx context.Context, token string) (*model.Form, error) {
	form, err := uc.repo.Form().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFormNotFound, "no form for token")
		}
		return nil, goerr.Wrap(err, "failed to get form by token")
	}
	if !form.IsPublished() {
		return nil, goerr.Wrap(ErrFormNotFound, "form is not published", goerr.V(FormIDKey, form.ID))
	}
	return form, nil
}

// GetPublicForm returns the submitter's view of a published form and counts
// the view in the background.
func (uc *SubmissionUseCase) GetPublicForm(ctx context.Context, token string) (*model.PublicForm, error) {
	form, err := uc.getPublishedForm(ctx, token)
	if err != nil {
		return nil, err
	}

	formID := form.ID
	async.Dispatch(ctx, "increment_views", func(ctx context.Context) error {
		return uc.repo.Form().IncrementViews(ctx, formID)
	})

	return form.Public(), nil
}

// Submit evaluates which fields are live for the answers, normalizes them and
// appends the submission to the form.
func (uc *SubmissionUseCase) Submit(ctx context.Context, token string, raw model.RawInput) (*model.Submission, error) {
	form, err := uc.getPublishedForm(ctx, token)
	if err != nil {
		return nil, err
	}

	answers := raw.ResolveLegacyKeys(form.Fields)
	visible := model.ComputeVisibleFields(form.Fields, answers)

	records, err := model.NormalizeSubmission(ctx, form.Fields, visible, answers)
	if err != nil {
		return nil, goerr.Wrap(err, "submission rejected", goerr.V(FormIDKey, form.ID))
	}

	submission, err := uc.repo.Submission().Append(ctx, &model.Submission{
		FormID:        form.ID,
		SchemaVersion: form.SchemaVersion,
		SubmittedAt:   uc.now().UTC(),
		Data:          records,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store submission", goerr.V(FormIDKey, form.ID))
	}

	logging.From(ctx).Info("submission accepted",
		"form_id", form.ID,
		"submission_id", submission.ID,
		"records", len(records),
	)

	if uc.notifier != nil {
		notified := model.CopySubmission(submission)
		async.Dispatch(ctx, "notify_submission", func(ctx context.Context) error {
			return uc.notifier.NotifySubmission(ctx, form, notified)
		})
	}

	return submission, nil
}
