package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
)

type formRepository struct {
	mu      sync.RWMutex
	forms   map[string]*model.Form
	byToken map[string]string // token -> form ID
}

var _ interfaces.FormRepository = &formRepository{}

func newFormRepository() *formRepository {
	return &formRepository{
		forms:   make(map[string]*model.Form),
		byToken: make(map[string]string),
	}
}

func (r *formRepository) Create(_ context.Context, form *model.Form) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := model.CopyForm(form)
	if created.ID == "" {
		created.ID = model.NewFormID()
	}
	if _, exists := r.forms[created.ID]; exists {
		return nil, goerr.New("form already exists", goerr.V("id", created.ID))
	}
	if created.Token != "" {
		if _, exists := r.byToken[created.Token]; exists {
			return nil, goerr.New("form token already in use", goerr.V("id", created.ID))
		}
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.forms[created.ID] = created
	if created.Token != "" {
		r.byToken[created.Token] = created.ID
	}

	return model.CopyForm(created), nil
}

func (r *formRepository) Get(_ context.Context, id string) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form, ok := r.forms[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
	}
	return model.CopyForm(form), nil
}

func (r *formRepository) GetByToken(_ context.Context, token string) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "form not found for token")
	}
	return model.CopyForm(r.forms[id]), nil
}

func (r *formRepository) ListByOwner(_ context.Context, ownerID string) ([]*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	forms := make([]*model.Form, 0)
	for _, form := range r.forms {
		if form.OwnerID == ownerID {
			forms = append(forms, model.CopyForm(form))
		}
	}

	sort.Slice(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})

	return forms, nil
}

func (r *formRepository) Update(_ context.Context, form *model.Form) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.forms[form.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", form.ID))
	}

	updated := model.CopyForm(form)
	updated.Views = existing.Views
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if existing.Token != updated.Token {
		delete(r.byToken, existing.Token)
		if updated.Token != "" {
			r.byToken[updated.Token] = updated.ID
		}
	}
	r.forms[updated.ID] = updated

	return model.CopyForm(updated), nil
}

func (r *formRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	form, ok := r.forms[id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
	}

	delete(r.byToken, form.Token)
	delete(r.forms, id)
	return nil
}

func (r *formRepository) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	form, ok := r.forms[id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
	}
	form.Views++
	return nil
}
