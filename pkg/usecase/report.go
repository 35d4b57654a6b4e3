package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// ReportUseCase builds exports and statistics from the submissions of a form
type ReportUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewReportUseCase(repo interfaces.Repository, now func() time.Time) *ReportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{repo: repo, now: now}
}

// loadFormWithSubmissions fetches the form and its submissions concurrently.
// Submissions of a form the owner does not own are discarded.
func (uc *ReportUseCase) loadFormWithSubmissions(ctx context.Context, ownerID, id string) (*model.Form, []*model.Submission, error) {
	var (
		form        *model.Form
		submissions []*model.Submission
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		form, err = getOwnedForm(egCtx, uc.repo, ownerID, id)
		return err
	})
	eg.Go(func() error {
		var err error
		submissions, err = uc.repo.Submission().List(egCtx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to list submissions", goerr.V(FormIDKey, id))
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	return form, submissions, nil
}

// ExportSubmissions renders every submission of the form in format
func (uc *ReportUseCase) ExportSubmissions(ctx context.Context, ownerID, id string, format types.ExportFormat) (*model.ExportFile, error) {
	if err := model.CheckExportFormat(format); err != nil {
		return nil, goerr.Wrap(err, "export rejected", goerr.V(FormIDKey, id))
	}

	var (
		form  *model.Form
		count int64
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		form, err = getOwnedForm(egCtx, uc.repo, ownerID, id)
		return err
	})
	eg.Go(func() error {
		var err error
		count, err = uc.repo.Submission().Count(egCtx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to count submissions", goerr.V(FormIDKey, id))
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// The count is an aggregation, so empty forms are rejected without
	// reading any submission document
	if count == 0 {
		return nil, goerr.Wrap(ErrNoSubmissions, "nothing to export", goerr.V(FormIDKey, id))
	}

	submissions, err := uc.repo.Submission().List(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list submissions", goerr.V(FormIDKey, id))
	}
	if len(submissions) == 0 {
		return nil, goerr.Wrap(ErrNoSubmissions, "nothing to export", goerr.V(FormIDKey, id))
	}

	file, err := model.Export(format, form, submissions, uc.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to export submissions",
			goerr.V(FormIDKey, id),
			goerr.V(FormatKey, format))
	}
	return file, nil
}

// GetStats returns the traffic of the form with its submissions
func (uc *ReportUseCase) GetStats(ctx context.Context, ownerID, id string) (*model.FormStats, error) {
	form, submissions, err := uc.loadFormWithSubmissions(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	stats := model.NewFormStats(form.ID, form.Views, int64(len(submissions)))
	stats.Keys = model.SubmissionKeys(submissions)
	stats.Responses = submissions
	return stats, nil
}
