package model

import (
	"strings"

	"github.com/secmon-lab/formgate/pkg/domain/types"
)

// FieldInput is a field as written by an author, over HTTP or in a schema
// file. Required defaults to true and a missing ID is generated.
type FieldInput struct {
	ID               string            `json:"id" yaml:"id" toml:"id"`
	Label            string            `json:"label" yaml:"label" toml:"label"`
	Type             types.FieldType   `json:"type" yaml:"type" toml:"type"`
	Required         *bool             `json:"required" yaml:"required" toml:"required"`
	Placeholder      string            `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Options          []string          `json:"options" yaml:"options" toml:"options"`
	ChoiceGroup      bool              `json:"choiceGroup" yaml:"choiceGroup" toml:"choiceGroup"`
	FileConfig       *FileConfig       `json:"fileConfig" yaml:"fileConfig" toml:"fileConfig"`
	ConditionalLogic []ConditionalRule `json:"conditionalLogic" yaml:"conditionalLogic" toml:"conditionalLogic"`
}

// Definition converts the input to a FieldDefinition. It is not validated.
func (in *FieldInput) Definition() FieldDefinition {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = NewFieldID()
	}
	required := true
	if in.Required != nil {
		required = *in.Required
	}

	return copyFieldDefinition(FieldDefinition{
		ID:               id,
		Label:            in.Label,
		Type:             types.FieldType(strings.ToLower(strings.TrimSpace(in.Type.String()))),
		Required:         required,
		Placeholder:      in.Placeholder,
		Options:          in.Options,
		ChoiceGroup:      in.ChoiceGroup,
		FileConfig:       in.FileConfig,
		ConditionalLogic: in.ConditionalLogic,
	})
}

// FieldInputs converts a list of inputs, keeping their order
func FieldInputs(inputs []FieldInput) []FieldDefinition {
	fields := make([]FieldDefinition, len(inputs))
	for i := range inputs {
		fields[i] = inputs[i].Definition()
	}
	return fields
}

// FormInput describes a new form
type FormInput struct {
	Title       string       `json:"title" yaml:"title" toml:"title"`
	Description string       `json:"description" yaml:"description" toml:"description"`
	Fields      []FieldInput `json:"fields" yaml:"fields" toml:"fields"`
}

// FormPatch holds the parts of a form to change; nil members are kept
type FormPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Fields      *[]FieldInput `json:"fields"`
}
