package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

// Form owns an ordered field list and its publication state. Submissions
// are kept in a separate append-only collection keyed by the form ID.
type Form struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"ownerId"`
	Token         string            `json:"token"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        types.FormStatus  `json:"status"`
	Fields        []FieldDefinition `json:"fields"`
	SchemaVersion int               `json:"schemaVersion"`
	Views         int64             `json:"views"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NewFormID generates an identifier for a new form
func NewFormID() string {
	return uuid.New().String()
}

// NewFormToken generates the public token of a form
func NewFormToken() string {
	return uuid.New().String()
}

// IsPublished reports whether the form accepts public access
func (f *Form) IsPublished() bool {
	return f.Status.Normalize() == types.FormStatusPublished
}

// Field returns the field with the given id
func (f *Form) Field(id string) (*FieldDefinition, bool) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// PublicForm is what an anonymous submitter sees of a published form
type PublicForm struct {
	Token       string            `json:"token"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Fields      []FieldDefinition `json:"fields"`
}

// Public strips owner-only data from the form
func (f *Form) Public() *PublicForm {
	return &PublicForm{
		Token:       f.Token,
		Title:       f.Title,
		Description: f.Description,
		Fields:      CopyFields(f.Fields),
	}
}

// CopyForm returns a deep copy of f
func CopyForm(f *Form) *Form {
	copied := *f
	copied.Fields = CopyFields(f.Fields)
	return &copied
}

// FieldsEqual reports whether two field lists are identical
func FieldsEqual(a, b []FieldDefinition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !fieldEqual(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b *FieldDefinition) bool {
	if a.ID != b.ID || a.Label != b.Label || a.Type != b.Type ||
		a.Required != b.Required || a.Placeholder != b.Placeholder ||
		a.ChoiceGroup != b.ChoiceGroup {
		return false
	}
	if !stringsEqual(a.Options, b.Options) {
		return false
	}
	if (a.FileConfig == nil) != (b.FileConfig == nil) {
		return false
	}
	if a.FileConfig != nil {
		if a.FileConfig.MaxSizeMB != b.FileConfig.MaxSizeMB ||
			len(a.FileConfig.AllowedTypes) != len(b.FileConfig.AllowedTypes) {
			return false
		}
		for i := range a.FileConfig.AllowedTypes {
			if a.FileConfig.AllowedTypes[i] != b.FileConfig.AllowedTypes[i] {
				return false
			}
		}
	}
	if len(a.ConditionalLogic) != len(b.ConditionalLogic) {
		return false
	}
	for i := range a.ConditionalLogic {
		if a.ConditionalLogic[i] != b.ConditionalLogic[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
