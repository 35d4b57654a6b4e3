package interfaces

import (
	"context"

	"github.com/secmon-lab/formgate/pkg/domain/model"
)

// FormRepository persists forms and their field lists
type FormRepository interface {
	// Create stores a new form. An empty ID is generated; timestamps are set
	// by the repository.
	Create(ctx context.Context, form *model.Form) (*model.Form, error)

	Get(ctx context.Context, id string) (*model.Form, error)
	GetByToken(ctx context.Context, token string) (*model.Form, error)

	// ListByOwner returns the forms of an owner, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error)

	// Update replaces the editable part of a form. The view counter and the
	// creation time are kept.
	Update(ctx context.Context, form *model.Form) (*model.Form, error)

	Delete(ctx context.Context, id string) error

	// IncrementViews atomically adds one view to the form
	IncrementViews(ctx context.Context, id string) error
}
