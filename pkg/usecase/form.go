package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

// FormUseCase implements the owner side of the form aggregate: authoring,
// publication and deletion.
type FormUseCase struct {
	repo interfaces.Repository
}

func NewFormUseCase(repo interfaces.Repository) *FormUseCase {
	return &FormUseCase{repo: repo}
}

func (uc *FormUseCase) CreateForm(ctx context.Context, ownerID string, input model.FormInput) (*model.Form, error) {
	if ownerID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "owner is required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "title is required", goerr.V(OwnerIDKey, ownerID))
	}

	fields, err := model.ValidateFields(model.FieldInputs(input.Fields))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid field list", goerr.V(OwnerIDKey, ownerID))
	}

	form := &model.Form{
		OwnerID:       ownerID,
		Token:         model.NewFormToken(),
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Status:        types.FormStatusDraft,
		Fields:        fields,
		SchemaVersion: 1,
	}

	created, err := uc.repo.Form().Create(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create form")
	}

	logging.From(ctx).Info("form created",
		"form_id", created.ID,
		"owner_id", ownerID,
		"fields", len(created.Fields),
	)
	return created, nil
}

func (uc *FormUseCase) ListForms(ctx context.Context, ownerID string) ([]*model.Form, error) {
	forms, err := uc.repo.Form().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list forms", goerr.V(OwnerIDKey, ownerID))
	}
	return forms, nil
}

// GetForm returns a form of the owner. A form owned by someone else is
// reported as not found.
func (uc *FormUseCase) GetForm(ctx context.Context, ownerID, id string) (*model.Form, error) {
	return getOwnedForm(ctx, uc.repo, ownerID, id)
}

func getOwnedForm(ctx context.Context, repo interfaces.Repository, ownerID, id string) (*model.Form, error) {
	form, err := repo.Form().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, id))
	}
	if form.OwnerID != ownerID {
		return nil, goerr.Wrap(ErrFormNotFound, "form not found",
			goerr.V(FormIDKey, id),
			goerr.V(OwnerIDKey, ownerID))
	}
	return form, nil
}

// UpdateForm applies patch to a form. The schema version is bumped when the
// field list changes.
func (uc *FormUseCase) UpdateForm(ctx context.Context, ownerID, id string, patch model.FormPatch) (*model.Form, error) {
	form, err := getOwnedForm(ctx, uc.repo, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "title is required", goerr.V(FormIDKey, id))
		}
		form.Title = title
	}
	if patch.Description != nil {
		form.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Fields != nil {
		fields, err := model.ValidateFields(model.FieldInputs(*patch.Fields))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid field list", goerr.V(FormIDKey, id))
		}
		if form.IsPublished() && len(fields) == 0 {
			return nil, goerr.Wrap(ErrNoFields, "published form must keep at least one field", goerr.V(FormIDKey, id))
		}
		if !model.FieldsEqual(form.Fields, fields) {
			form.Fields = fields
			form.SchemaVersion++
		}
	}

	updated, err := uc.repo.Form().Update(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update form", goerr.V(FormIDKey, id))
	}
	return updated, nil
}

// PublishForm exposes the form under its public token
func (uc *FormUseCase) PublishForm(ctx context.Context, ownerID, id string) (*model.Form, error) {
	form, err := getOwnedForm(ctx, uc.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	if len(form.Fields) == 0 {
		return nil, goerr.Wrap(ErrNoFields, "cannot publish a form without fields", goerr.V(FormIDKey, id))
	}
	return uc.setStatus(ctx, form, types.FormStatusPublished)
}

// UnpublishForm takes the form back to draft
func (uc *FormUseCase) UnpublishForm(ctx context.Context, ownerID, id string) (*model.Form, error) {
	form, err := getOwnedForm(ctx, uc.repo, ownerID, id)
	if err != nil {
		return nil, err
	}
	return uc.setStatus(ctx, form, types.FormStatusDraft)
}

func (uc *FormUseCase) setStatus(ctx context.Context, form *model.Form, status types.FormStatus) (*model.Form, error) {
	if form.Status == status {
		return form, nil
	}
	form.Status = status

	updated, err := uc.repo.Form().Update(ctx, form)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to change form status",
			goerr.V(FormIDKey, form.ID),
			goerr.V("status", status))
	}

	logging.From(ctx).Info("form status changed", "form_id", form.ID, "status", status)
	return updated, nil
}

// DeleteForm removes a form together with its submissions
func (uc *FormUseCase) DeleteForm(ctx context.Context, ownerID, id string) error {
	if _, err := getOwnedForm(ctx, uc.repo, ownerID, id); err != nil {
		return err
	}

	deleted, err := uc.repo.Submission().DeleteByForm(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete submissions", goerr.V(FormIDKey, id))
	}
	if err := uc.repo.Form().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete form", goerr.V(FormIDKey, id))
	}

	logging.From(ctx).Info("form deleted", "form_id", id, "submissions", deleted)
	return nil
}

// ImportForm creates a form from a schema file input and optionally
// publishes it right away
func (uc *FormUseCase) ImportForm(ctx context.Context, ownerID string, input model.FormInput, publish bool) (*model.Form, error) {
	form, err := uc.CreateForm(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}
	if !publish {
		return form, nil
	}

	published, err := uc.PublishForm(ctx, ownerID, form.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "imported form could not be published", goerr.V(FormIDKey, form.ID))
	}
	return published, nil
}
