package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/types"
)

// ValidateFieldDefinition checks a single field and returns its normalized
// form. Options are kept only for option types; a file policy on any other
// type is rejected.
func ValidateFieldDefinition(f FieldDefinition) (FieldDefinition, error) {
	field := copyFieldDefinition(f)
	field.ID = strings.TrimSpace(field.ID)
	field.Label = strings.TrimSpace(field.Label)

	if field.ID == "" {
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "field ID is required",
			goerr.V(FieldLabelKey, field.Label))
	}
	if field.Label == "" {
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "field label is required",
			goerr.V(FieldIDKey, field.ID))
	}
	if !field.Type.IsValid() {
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "unsupported field type",
			goerr.V(FieldIDKey, field.ID),
			goerr.V(FieldTypeKey, field.Type))
	}

	if field.Type.HasOptions() {
		if err := validateOptions(field); err != nil {
			return FieldDefinition{}, err
		}
	} else {
		field.Options = nil
		field.ChoiceGroup = false
	}

	switch {
	case field.Type.CanTrigger() && len(field.Options) == 0:
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "radio/select field requires at least one option",
			goerr.V(FieldIDKey, field.ID),
			goerr.V(FieldTypeKey, field.Type))

	case field.Type == types.FieldTypeCheckbox && field.ChoiceGroup && len(field.Options) == 0:
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "checkbox choice group requires at least one option",
			goerr.V(FieldIDKey, field.ID))
	}

	if field.Type == types.FieldTypeFile {
		if err := validateFileConfig(&field); err != nil {
			return FieldDefinition{}, err
		}
	} else if field.FileConfig != nil {
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "file config is only allowed on file fields",
			goerr.V(FieldIDKey, field.ID),
			goerr.V(FieldTypeKey, field.Type))
	}

	if len(field.ConditionalLogic) > 0 && !field.Type.CanTrigger() {
		return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "only radio/select fields may carry conditional rules",
			goerr.V(FieldIDKey, field.ID),
			goerr.V(FieldTypeKey, field.Type))
	}
	for i, rule := range field.ConditionalLogic {
		if rule.TargetFieldID == "" {
			return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "conditional rule has no target field",
				goerr.V(FieldIDKey, field.ID),
				goerr.V(RuleIndexKey, i))
		}
		if rule.TargetFieldID == field.ID {
			return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "field cannot target itself",
				goerr.V(FieldIDKey, field.ID),
				goerr.V(RuleIndexKey, i))
		}
		if !field.HasOption(rule.TriggerValue) {
			return FieldDefinition{}, goerr.Wrap(ErrInvalidFieldConfig, "trigger value is not an option of the field",
				goerr.V(FieldIDKey, field.ID),
				goerr.V(RuleIndexKey, i),
				goerr.V(OptionKey, rule.TriggerValue))
		}
	}

	return field, nil
}

func validateOptions(field FieldDefinition) error {
	seen := make(map[string]bool, len(field.Options))
	for _, opt := range field.Options {
		if strings.TrimSpace(opt) == "" {
			return goerr.Wrap(ErrInvalidFieldConfig, "option must not be blank",
				goerr.V(FieldIDKey, field.ID))
		}
		if seen[opt] {
			return goerr.Wrap(ErrInvalidFieldConfig, "duplicate option",
				goerr.V(FieldIDKey, field.ID),
				goerr.V(OptionKey, opt))
		}
		seen[opt] = true
	}
	return nil
}

func validateFileConfig(field *FieldDefinition) error {
	if field.FileConfig == nil || len(field.FileConfig.AllowedTypes) == 0 {
		return goerr.Wrap(ErrInvalidFieldConfig, "file field requires at least one allowed type",
			goerr.V(FieldIDKey, field.ID))
	}
	if field.FileConfig.MaxSizeMB < 0 {
		return goerr.Wrap(ErrInvalidFieldConfig, "file size limit must be positive",
			goerr.V(FieldIDKey, field.ID))
	}
	if field.FileConfig.MaxSizeMB == 0 {
		field.FileConfig.MaxSizeMB = DefaultMaxFileSizeMB
	}
	for _, t := range field.FileConfig.AllowedTypes {
		if !t.IsValid() {
			return goerr.Wrap(ErrInvalidFieldConfig, "unsupported file category",
				goerr.V(FieldIDKey, field.ID),
				goerr.V("category", t))
		}
	}
	return nil
}

// ValidateFields validates a whole field list: every field on its own, id
// uniqueness, and that every conditional rule points at a field of the list.
func ValidateFields(fields []FieldDefinition) ([]FieldDefinition, error) {
	validated := make([]FieldDefinition, 0, len(fields))
	ids := make(map[string]bool, len(fields))

	for i, f := range fields {
		field, err := ValidateFieldDefinition(f)
		if err != nil {
			return nil, goerr.Wrap(err, "field validation failed", goerr.V(FieldIndexKey, i))
		}
		if ids[field.ID] {
			return nil, goerr.Wrap(ErrInvalidFieldConfig, "duplicate field ID",
				goerr.V(FieldIDKey, field.ID),
				goerr.V(FieldIndexKey, i))
		}
		ids[field.ID] = true
		validated = append(validated, field)
	}

	for _, field := range validated {
		for i, rule := range field.ConditionalLogic {
			if !ids[rule.TargetFieldID] {
				return nil, goerr.Wrap(ErrInvalidFieldConfig, "conditional rule targets an unknown field",
					goerr.V(FieldIDKey, field.ID),
					goerr.V(RuleIndexKey, i),
					goerr.V(TargetFieldKey, rule.TargetFieldID))
			}
		}
	}

	return validated, nil
}
