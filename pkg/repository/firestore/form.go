package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type formRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.FormRepository = &formRepository{}

func newFormRepository(client *firestore.Client) *formRepository {
	return &formRepository{client: client}
}

// formDocument is the Firestore persistence model of a form
type formDocument struct {
	ID            string          `firestore:"ID"`
	OwnerID       string          `firestore:"OwnerID"`
	Token         string          `firestore:"Token"`
	Title         string          `firestore:"Title"`
	Description   string          `firestore:"Description"`
	Status        string          `firestore:"Status"`
	Fields        []fieldDocument `firestore:"Fields"`
	SchemaVersion int             `firestore:"SchemaVersion"`
	Views         int64           `firestore:"Views"`
	CreatedAt     time.Time       `firestore:"CreatedAt"`
	UpdatedAt     time.Time       `firestore:"UpdatedAt"`
}

type fieldDocument struct {
	ID               string         `firestore:"ID"`
	Label            string         `firestore:"Label"`
	Type             string         `firestore:"Type"`
	Required         bool           `firestore:"Required"`
	Placeholder      string         `firestore:"Placeholder,omitempty"`
	Options          []string       `firestore:"Options,omitempty"`
	ChoiceGroup      bool           `firestore:"ChoiceGroup,omitempty"`
	FileConfig       *fileDocument  `firestore:"FileConfig,omitempty"`
	ConditionalLogic []ruleDocument `firestore:"ConditionalLogic,omitempty"`
}

type fileDocument struct {
	MaxSizeMB    int      `firestore:"MaxSizeMB"`
	AllowedTypes []string `firestore:"AllowedTypes"`
}

type ruleDocument struct {
	Value       string `firestore:"Value"`
	ShowFieldID string `firestore:"ShowFieldID"`
}

func toFieldDocuments(fields []model.FieldDefinition) []fieldDocument {
	docs := make([]fieldDocument, len(fields))
	for i, f := range fields {
		doc := fieldDocument{
			ID:          f.ID,
			Label:       f.Label,
			Type:        f.Type.String(),
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Options:     f.Options,
			ChoiceGroup: f.ChoiceGroup,
		}
		if f.FileConfig != nil {
			allowed := make([]string, len(f.FileConfig.AllowedTypes))
			for j, t := range f.FileConfig.AllowedTypes {
				allowed[j] = t.String()
			}
			doc.FileConfig = &fileDocument{MaxSizeMB: f.FileConfig.MaxSizeMB, AllowedTypes: allowed}
		}
		for _, rule := range f.ConditionalLogic {
			doc.ConditionalLogic = append(doc.ConditionalLogic, ruleDocument{
				Value:       rule.TriggerValue,
				ShowFieldID: rule.TargetFieldID,
			})
		}
		docs[i] = doc
	}
	return docs
}

func toFieldModels(docs []fieldDocument) []model.FieldDefinition {
	fields := make([]model.FieldDefinition, len(docs))
	for i, doc := range docs {
		f := model.FieldDefinition{
			ID:          doc.ID,
			Label:       doc.Label,
			Type:        types.FieldType(doc.Type),
			Required:    doc.Required,
			Placeholder: doc.Placeholder,
			Options:     doc.Options,
			ChoiceGroup: doc.ChoiceGroup,
		}
		if doc.FileConfig != nil {
			allowed := make([]types.FileCategory, len(doc.FileConfig.AllowedTypes))
			for j, t := range doc.FileConfig.AllowedTypes {
				allowed[j] = types.FileCategory(t)
			}
			f.FileConfig = &model.FileConfig{MaxSizeMB: doc.FileConfig.MaxSizeMB, AllowedTypes: allowed}
		}
		for _, rule := range doc.ConditionalLogic {
			f.ConditionalLogic = append(f.ConditionalLogic, model.ConditionalRule{
				TriggerValue:  rule.Value,
				TargetFieldID: rule.ShowFieldID,
			})
		}
		fields[i] = f
	}
	return fields
}

func toFormDocument(f *model.Form) *formDocument {
	return &formDocument{
		ID:            f.ID,
		OwnerID:       f.OwnerID,
		Token:         f.Token,
		Title:         f.Title,
		Description:   f.Description,
		Status:        f.Status.Normalize().String(),
		Fields:        toFieldDocuments(f.Fields),
		SchemaVersion: f.SchemaVersion,
		Views:         f.Views,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func toFormModel(doc *formDocument) *model.Form {
	return &model.Form{
		ID:            doc.ID,
		OwnerID:       doc.OwnerID,
		Token:         doc.Token,
		Title:         doc.Title,
		Description:   doc.Description,
		Status:        types.FormStatus(doc.Status).Normalize(),
		Fields:        toFieldModels(doc.Fields),
		SchemaVersion: doc.SchemaVersion,
		Views:         doc.Views,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func (r *formRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(formsCollectionName(r.collectionPrefix))
}

func (r *formRepository) Create(ctx context.Context, form *model.Form) (*model.Form, error) {
	created := model.CopyForm(form)
	if created.ID == "" {
		created.ID = model.NewFormID()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection().Doc(created.ID).Create(ctx, toFormDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create form", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *formRepository) Get(ctx context.Context, id string) (*model.Form, error) {
	docSnap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get form", goerr.V("id", id))
	}

	var doc formDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal form", goerr.V("id", id))
	}
	return toFormModel(&doc), nil
}

func (r *formRepository) GetByToken(ctx context.Context, token string) (*model.Form, error) {
	iter := r.collection().Where("Token", "==", token).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "form not found for token")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query form by token")
	}

	var doc formDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal form", goerr.V("doc_id", docSnap.Ref.ID))
	}
	return toFormModel(&doc), nil
}

func (r *formRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Form, error) {
	iter := r.collection().
		Where("OwnerID", "==", ownerID).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	forms := make([]*model.Form, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate forms", goerr.V("owner_id", ownerID))
		}

		var doc formDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal form", goerr.V("doc_id", docSnap.Ref.ID))
		}
		forms = append(forms, toFormModel(&doc))
	}

	return forms, nil
}

func (r *formRepository) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	ref := r.collection().Doc(form.ID)
	updated := model.CopyForm(form)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", form.ID))
			}
			return goerr.Wrap(err, "failed to get form", goerr.V("id", form.ID))
		}

		var existing formDocument
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal form", goerr.V("id", form.ID))
		}

		updated.Views = existing.Views
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

		return tx.Update(ref, []firestore.Update{
			{Path: "Token", Value: updated.Token},
			{Path: "Title", Value: updated.Title},
			{Path: "Description", Value: updated.Description},
			{Path: "Status", Value: updated.Status.Normalize().String()},
			{Path: "Fields", Value: toFieldDocuments(updated.Fields)},
			{Path: "SchemaVersion", Value: updated.SchemaVersion},
			{Path: "UpdatedAt", Value: updated.UpdatedAt},
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update form", goerr.V("id", form.ID))
	}

	return updated, nil
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	ref := r.collection().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get form", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete form", goerr.V("id", id))
	}
	return nil
}

func (r *formRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "Views", Value: firestore.Increment(1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "form not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to increment views", goerr.V("id", id))
	}
	return nil
}
