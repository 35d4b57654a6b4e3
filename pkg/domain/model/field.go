package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

// DefaultMaxFileSizeMB is applied when a file field does not set a limit
const DefaultMaxFileSizeMB = 2

// FileConfig constrains the payload accepted by a file field
type FileConfig struct {
	MaxSizeMB    int                  `json:"maxSizeMB" yaml:"maxSizeMB" toml:"maxSizeMB"`
	AllowedTypes []types.FileCategory `json:"allowedTypes" yaml:"allowedTypes" toml:"allowedTypes"`
}

// Allows reports whether the category is accepted by this configuration
func (c *FileConfig) Allows(category types.FileCategory) bool {
	for _, t := range c.AllowedTypes {
		if t == category {
			return true
		}
	}
	return false
}

// ConditionalRule reveals TargetFieldID when the owning field's answer
// equals TriggerValue.
type ConditionalRule struct {
	TriggerValue  string `json:"value" yaml:"value" toml:"value"`
	TargetFieldID string `json:"showFieldId" yaml:"showFieldId" toml:"showFieldId"`
}

// FieldDefinition is one question of a form
type FieldDefinition struct {
	ID               string            `json:"id"`
	Label            string            `json:"label"`
	Type             types.FieldType   `json:"type"`
	Required         bool              `json:"required"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Options          []string          `json:"options,omitempty"`
	ChoiceGroup      bool              `json:"choiceGroup,omitempty"`
	FileConfig       *FileConfig       `json:"fileConfig,omitempty"`
	ConditionalLogic []ConditionalRule `json:"conditionalLogic,omitempty"`
}

// NewFieldID generates an identifier for a new field
func NewFieldID() string {
	return uuid.New().String()
}

// IsChoiceGroup reports whether the field is a checkbox answered with a
// subset of its options, as opposed to a single boolean toggle.
func (f *FieldDefinition) IsChoiceGroup() bool {
	return f.Type == types.FieldTypeCheckbox && (f.ChoiceGroup || len(f.Options) > 0)
}

// IsToggle reports whether the field is a single boolean checkbox
func (f *FieldDefinition) IsToggle() bool {
	return f.Type == types.FieldTypeCheckbox && !f.IsChoiceGroup()
}

// HasOption reports whether value is one of the field's options
func (f *FieldDefinition) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// DisplayLabel returns the label, or the id when the label is blank
func (f *FieldDefinition) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.ID
}

// LegacyKey returns the label-derived key older clients used to submit
// answers: the lowercased label with every non [a-z0-9] rune replaced by
// '_'. It changes whenever the label is edited, so it is only accepted on
// input and never stored.
func (f *FieldDefinition) LegacyKey() string {
	return LegacyKey(f.Label)
}

// LegacyKey slugifies a label the way label-keyed payloads were built
func LegacyKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func copyFieldDefinition(f FieldDefinition) FieldDefinition {
	copied := f
	if f.Options != nil {
		copied.Options = make([]string, len(f.Options))
		copy(copied.Options, f.Options)
	}
	if f.FileConfig != nil {
		fc := *f.FileConfig
		if f.FileConfig.AllowedTypes != nil {
			fc.AllowedTypes = make([]types.FileCategory, len(f.FileConfig.AllowedTypes))
			copy(fc.AllowedTypes, f.FileConfig.AllowedTypes)
		}
		copied.FileConfig = &fc
	}
	if f.ConditionalLogic != nil {
		copied.ConditionalLogic = make([]ConditionalRule, len(f.ConditionalLogic))
		copy(copied.ConditionalLogic, f.ConditionalLogic)
	}
	return copied
}

// CopyFields returns a deep copy of a field list
func CopyFields(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	copied := make([]FieldDefinition, len(fields))
	for i, f := range fields {
		copied[i] = copyFieldDefinition(f)
	}
	return copied
}
