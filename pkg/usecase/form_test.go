package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/usecase"
)

func TestFormUseCase_CreateForm(t *testing.T) {
	t.Run("creates a draft with defaults", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form, err := env.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
		gt.NoError(t, err).Required()

		gt.V(t, form.Status).Equal(types.FormStatusDraft)
		gt.V(t, form.SchemaVersion).Equal(1)
		gt.V(t, form.Token).NotEqual("")
		gt.A(t, form.Fields).Length(4)
		gt.B(t, form.Fields[1].Required).True()
		gt.B(t, form.Fields[2].Required).False()
	})

	t.Run("title is required", func(t *testing.T) {
		env := newTestEnv(t)
		input := rsvpInput()
		input.Title = "   "
		_, err := env.uc.Form.CreateForm(context.Background(), testOwnerID, input)
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("owner is required", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Form.CreateForm(context.Background(), "", rsvpInput())
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("invalid field is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		input := rsvpInput()
		input.Fields[0].Options = nil
		_, err := env.uc.Form.CreateForm(context.Background(), testOwnerID, input)
		gt.Error(t, err).Is(model.ErrInvalidFieldConfig)
	})

	t.Run("missing field ids are generated", func(t *testing.T) {
		env := newTestEnv(t)
		form, err := env.uc.Form.CreateForm(context.Background(), testOwnerID, model.FormInput{
			Title:  "Quick",
			Fields: []model.FieldInput{{Label: "Name", Type: types.FieldTypeText}},
		})
		gt.NoError(t, err).Required()
		gt.V(t, form.Fields[0].ID).NotEqual("")
	})
}

func TestFormUseCase_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	form, err := env.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
	gt.NoError(t, err).Required()

	_, err = env.uc.Form.GetForm(ctx, "intruder", form.ID)
	gt.Error(t, err).Is(usecase.ErrFormNotFound)

	_, err = env.uc.Form.PublishForm(ctx, "intruder", form.ID)
	gt.Error(t, err).Is(usecase.ErrFormNotFound)

	gt.Error(t, env.uc.Form.DeleteForm(ctx, "intruder", form.ID)).Is(usecase.ErrFormNotFound)

	_, err = env.uc.Form.GetForm(ctx, testOwnerID, "missing")
	gt.Error(t, err).Is(usecase.ErrFormNotFound)

	forms, err := env.uc.Form.ListForms(ctx, "intruder")
	gt.NoError(t, err).Required()
	gt.A(t, forms).Length(0)
}

func TestFormUseCase_UpdateForm(t *testing.T) {
	t.Run("field change bumps schema version", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form, err := env.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
		gt.NoError(t, err).Required()

		fields := rsvpInput().Fields
		fields = append(fields, model.FieldInput{ID: "comment", Label: "Comment", Type: types.FieldTypeTextarea})
		updated, err := env.uc.Form.UpdateForm(ctx, testOwnerID, form.ID, model.FormPatch{Fields: &fields})
		gt.NoError(t, err).Required()
		gt.V(t, updated.SchemaVersion).Equal(2)
		gt.A(t, updated.Fields).Length(5)
	})

	t.Run("same fields keep schema version", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form, err := env.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
		gt.NoError(t, err).Required()

		fields := rsvpInput().Fields
		title := "Renamed"
		updated, err := env.uc.Form.UpdateForm(ctx, testOwnerID, form.ID, model.FormPatch{Title: &title, Fields: &fields})
		gt.NoError(t, err).Required()
		gt.V(t, updated.SchemaVersion).Equal(1)
		gt.V(t, updated.Title).Equal("Renamed")
		gt.V(t, updated.Description).Equal("Summer party")
	})

	t.Run("published form cannot lose all fields", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.publishedForm(t)

		empty := []model.FieldInput{}
		_, err := env.uc.Form.UpdateForm(context.Background(), testOwnerID, form.ID, model.FormPatch{Fields: &empty})
		gt.Error(t, err).Is(usecase.ErrNoFields)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form, err := env.uc.Form.CreateForm(ctx, testOwnerID, rsvpInput())
		gt.NoError(t, err).Required()

		blank := ""
		_, err = env.uc.Form.UpdateForm(ctx, testOwnerID, form.ID, model.FormPatch{Title: &blank})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})
}

func TestFormUseCase_Publish(t *testing.T) {
	t.Run("publish and unpublish", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form := env.publishedForm(t)
		gt.B(t, form.IsPublished()).True()

		draft, err := env.uc.Form.UnpublishForm(ctx, testOwnerID, form.ID)
		gt.NoError(t, err).Required()
		gt.B(t, draft.IsPublished()).False()
	})

	t.Run("form without fields cannot be published", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		form, err := env.uc.Form.CreateForm(ctx, testOwnerID, model.FormInput{Title: "Empty"})
		gt.NoError(t, err).Required()

		_, err = env.uc.Form.PublishForm(ctx, testOwnerID, form.ID)
		gt.Error(t, err).Is(usecase.ErrNoFields)
	})
}

func TestFormUseCase_DeleteForm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	form := env.publishedForm(t)

	_, err := env.uc.Submission.Submit(ctx, form.Token, model.RawInput{"attending": "No"})
	gt.NoError(t, err).Required()

	gt.NoError(t, env.uc.Form.DeleteForm(ctx, testOwnerID, form.ID)).Required()

	_, err = env.uc.Form.GetForm(ctx, testOwnerID, form.ID)
	gt.Error(t, err).Is(usecase.ErrFormNotFound)

	count, err := env.repo.Submission().Count(ctx, form.ID)
	gt.NoError(t, err).Required()
	gt.V(t, count).Equal(int64(0))
}

func TestFormUseCase_ImportForm(t *testing.T) {
	t.Run("imported as draft", func(t *testing.T) {
		env := newTestEnv(t)
		form, err := env.uc.Form.ImportForm(context.Background(), testOwnerID, rsvpInput(), false)
		gt.NoError(t, err).Required()
		gt.B(t, form.IsPublished()).False()
	})

	t.Run("imported and published", func(t *testing.T) {
		env := newTestEnv(t)
		form, err := env.uc.Form.ImportForm(context.Background(), testOwnerID, rsvpInput(), true)
		gt.NoError(t, err).Required()
		gt.B(t, form.IsPublished()).True()
	})

	t.Run("empty form cannot be published on import", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.uc.Form.ImportForm(context.Background(), testOwnerID, model.FormInput{Title: "Empty"}, true)
		gt.Error(t, err).Is(usecase.ErrNoFields)
	})
}
