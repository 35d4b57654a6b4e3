package usecase

import (
	"time"

	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
)

type UseCases struct {
	repo     interfaces.Repository
	notifier interfaces.SubmissionNotifier
	now      func() time.Time

	Form       *FormUseCase
	Submission *SubmissionUseCase
	Report     *ReportUseCase
}

type Option func(*UseCases)

// WithNotifier sends a notice for every accepted submission
func WithNotifier(notifier interfaces.SubmissionNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithClock replaces the clock used for submission and export timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Form = NewFormUseCase(repo)
	uc.Submission = NewSubmissionUseCase(repo, uc.notifier, uc.now)
	uc.Report = NewReportUseCase(repo, uc.now)

	return uc
}
