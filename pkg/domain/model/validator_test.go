package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

func TestValidateFieldDefinition(t *testing.T) {
	tests := []struct {
		name    string
		field   model.FieldDefinition
		wantErr bool
	}{
		{
			name:  "valid text field",
			field: model.FieldDefinition{ID: "name", Label: "Name", Type: types.FieldTypeText, Required: true},
		},
		{
			name: "valid radio with rule",
			field: model.FieldDefinition{
				ID: "f1", Label: "Agree", Type: types.FieldTypeRadio,
				Options:          []string{"Yes", "No"},
				ConditionalLogic: []model.ConditionalRule{{TriggerValue: "Yes", TargetFieldID: "f2"}},
			},
		},
		{
			name:  "valid single toggle checkbox",
			field: model.FieldDefinition{ID: "tos", Label: "Accept terms", Type: types.FieldTypeCheckbox},
		},
		{
			name:    "missing id",
			field:   model.FieldDefinition{Label: "Name", Type: types.FieldTypeText},
			wantErr: true,
		},
		{
			name:    "blank label",
			field:   model.FieldDefinition{ID: "name", Label: "  ", Type: types.FieldTypeText},
			wantErr: true,
		},
		{
			name:    "unknown type",
			field:   model.FieldDefinition{ID: "name", Label: "Name", Type: "rating"},
			wantErr: true,
		},
		{
			name:    "select without options",
			field:   model.FieldDefinition{ID: "color", Label: "Color", Type: types.FieldTypeSelect},
			wantErr: true,
		},
		{
			name:    "choice group without options",
			field:   model.FieldDefinition{ID: "tags", Label: "Tags", Type: types.FieldTypeCheckbox, ChoiceGroup: true},
			wantErr: true,
		},
		{
			name: "duplicate option",
			field: model.FieldDefinition{
				ID: "color", Label: "Color", Type: types.FieldTypeRadio, Options: []string{"Red", "Red"},
			},
			wantErr: true,
		},
		{
			name: "blank option",
			field: model.FieldDefinition{
				ID: "color", Label: "Color", Type: types.FieldTypeRadio, Options: []string{"Red", ""},
			},
			wantErr: true,
		},
		{
			name:    "file without allowed types",
			field:   model.FieldDefinition{ID: "cv", Label: "CV", Type: types.FieldTypeFile},
			wantErr: true,
		},
		{
			name: "file with negative size",
			field: model.FieldDefinition{
				ID: "cv", Label: "CV", Type: types.FieldTypeFile,
				FileConfig: &model.FileConfig{MaxSizeMB: -1, AllowedTypes: []types.FileCategory{types.FileCategoryDocument}},
			},
			wantErr: true,
		},
		{
			name: "file config on text field",
			field: model.FieldDefinition{
				ID: "name", Label: "Name", Type: types.FieldTypeText,
				FileConfig: &model.FileConfig{AllowedTypes: []types.FileCategory{types.FileCategoryImage}},
			},
			wantErr: true,
		},
		{
			name: "rule on text field",
			field: model.FieldDefinition{
				ID: "name", Label: "Name", Type: types.FieldTypeText,
				ConditionalLogic: []model.ConditionalRule{{TriggerValue: "x", TargetFieldID: "f2"}},
			},
			wantErr: true,
		},
		{
			name: "rule targeting itself",
			field: model.FieldDefinition{
				ID: "f1", Label: "Agree", Type: types.FieldTypeRadio, Options: []string{"Yes"},
				ConditionalLogic: []model.ConditionalRule{{TriggerValue: "Yes", TargetFieldID: "f1"}},
			},
			wantErr: true,
		},
		{
			name: "rule with unknown trigger value",
			field: model.FieldDefinition{
				ID: "f1", Label: "Agree", Type: types.FieldTypeRadio, Options: []string{"Yes"},
				ConditionalLogic: []model.ConditionalRule{{TriggerValue: "Maybe", TargetFieldID: "f2"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ValidateFieldDefinition(tt.field)
			if tt.wantErr {
				gt.Error(t, err).Is(model.ErrInvalidFieldConfig)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestValidateFieldDefinition_Normalizes(t *testing.T) {
	t.Run("file size defaults to 2MB", func(t *testing.T) {
		field, err := model.ValidateFieldDefinition(model.FieldDefinition{
			ID: "cv", Label: "CV", Type: types.FieldTypeFile,
			FileConfig: &model.FileConfig{AllowedTypes: []types.FileCategory{types.FileCategoryDocument}},
		})
		gt.NoError(t, err).Required()
		gt.V(t, field.FileConfig.MaxSizeMB).Equal(model.DefaultMaxFileSizeMB)
	})

	t.Run("options dropped for non option types", func(t *testing.T) {
		field, err := model.ValidateFieldDefinition(model.FieldDefinition{
			ID: " name ", Label: " Name ", Type: types.FieldTypeText, Options: []string{"a"},
		})
		gt.NoError(t, err).Required()
		gt.V(t, field.ID).Equal("name")
		gt.V(t, field.Label).Equal("Name")
		gt.A(t, field.Options).Length(0)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		input := model.FieldDefinition{
			ID: "cv", Label: "CV", Type: types.FieldTypeFile,
			FileConfig: &model.FileConfig{AllowedTypes: []types.FileCategory{types.FileCategoryImage}},
		}
		_, err := model.ValidateFieldDefinition(input)
		gt.NoError(t, err).Required()
		gt.V(t, input.FileConfig.MaxSizeMB).Equal(0)
	})
}

func TestValidateFields(t *testing.T) {
	radio := model.FieldDefinition{
		ID: "f1", Label: "Agree", Type: types.FieldTypeRadio, Options: []string{"Yes", "No"},
		ConditionalLogic: []model.ConditionalRule{{TriggerValue: "Yes", TargetFieldID: "f2"}},
	}
	text := model.FieldDefinition{ID: "f2", Label: "Why", Type: types.FieldTypeText}

	t.Run("valid list", func(t *testing.T) {
		fields, err := model.ValidateFields([]model.FieldDefinition{radio, text})
		gt.NoError(t, err).Required()
		gt.A(t, fields).Length(2)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := model.ValidateFields([]model.FieldDefinition{text, text})
		gt.Error(t, err).Is(model.ErrInvalidFieldConfig)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := model.ValidateFields([]model.FieldDefinition{radio})
		gt.Error(t, err).Is(model.ErrInvalidFieldConfig)
	})

	t.Run("empty list", func(t *testing.T) {
		fields, err := model.ValidateFields(nil)
		gt.NoError(t, err)
		gt.A(t, fields).Length(0)
	})
}

func TestLegacyKey(t *testing.T) {
	gt.V(t, model.LegacyKey("Your Email")).Equal("your_email")
	gt.V(t, model.LegacyKey("Age (years)")).Equal("age__years_")
	gt.V(t, model.LegacyKey("")).Equal("")
}
