package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
)

type submissionRepository struct {
	mu          sync.RWMutex
	submissions map[string][]*model.Submission // key: form ID, in append order
}

var _ interfaces.SubmissionRepository = &submissionRepository{}

func newSubmissionRepository() *submissionRepository {
	return &submissionRepository{
		submissions: make(map[string][]*model.Submission),
	}
}

func (r *submissionRepository) Append(_ context.Context, submission *model.Submission) (*model.Submission, error) {
	if submission.FormID == "" {
		return nil, goerr.New("submission has no form ID")
	}

	created := model.CopySubmission(submission)
	if created.ID == "" {
		created.ID = model.NewSubmissionID()
	}
	if created.SubmittedAt.IsZero() {
		created.SubmittedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.submissions[created.FormID] = append(r.submissions[created.FormID], created)
	r.mu.Unlock()

	return model.CopySubmission(created), nil
}

func (r *submissionRepository) List(_ context.Context, formID string) ([]*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.submissions[formID]
	result := make([]*model.Submission, 0, len(stored))
	for _, s := range stored {
		result = append(result, model.CopySubmission(s))
	}
	return result, nil
}

func (r *submissionRepository) Count(_ context.Context, formID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.submissions[formID])), nil
}

func (r *submissionRepository) DeleteByForm(_ context.Context, formID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.submissions[formID])
	delete(r.submissions, formID)
	return deleted, nil
}
