package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/repository/memory"
	"github.com/secmon-lab/formgate/pkg/usecase"
)

const testOwnerID = "owner-1"

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func optional() *bool {
	b := false
	return &b
}

// rsvpInput is a form where "guests" is only asked when attending
func rsvpInput() model.FormInput {
	return model.FormInput{
		Title:       "Party RSVP",
		Description: "Summer party",
		Fields: []model.FieldInput{
			{
				ID: "attending", Label: "Attending?", Type: types.FieldTypeRadio,
				Options:          []string{"Yes", "No"},
				ConditionalLogic: []model.ConditionalRule{{TriggerValue: "Yes", TargetFieldID: "guests"}},
			},
			{ID: "guests", Label: "Guests", Type: types.FieldTypeNumber},
			{ID: "diet", Label: "Diet", Type: types.FieldTypeCheckbox, Options: []string{"Vegan", "Halal", "None"}, Required: optional()},
			{ID: "newsletter", Label: "Newsletter", Type: types.FieldTypeCheckbox, Required: optional()},
		},
	}
}

type testEnv struct {
	uc       *usecase.UseCases
	repo     *memory.Memory
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	notifier := &recordingNotifier{}
	uc := usecase.New(repo,
		usecase.WithNotifier(notifier),
		usecase.WithClock(func() time.Time { return fixedNow }),
	)
	return &testEnv{uc: uc, repo: repo, notifier: notifier}
}

// publishedForm creates and publishes the RSVP form
func (e *testEnv) publishedForm(t *testing.T) *model.Form {
	t.Helper()
	ctx := context.Background()

	form, err := e.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
	gt.NoError(t, err).Required()
	published, err := e.uc.Form.PublishForm(ctx, testOwnerID, form.ID)
	gt.NoError(t, err).Required()
	return published
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []*model.Submission
}

func (n *recordingNotifier) NotifySubmission(_ context.Context, _ *model.Form, submission *model.Submission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, submission)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
