package types

import "fmt"

// FieldType represents the type of a form field
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeEmail     FieldType = "email"
	FieldTypeNumber    FieldType = "number"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeFile      FieldType = "file"
	FieldTypeDate      FieldType = "date"
	FieldTypeSignature FieldType = "signature"
)

// AllFieldTypes returns all valid field types
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeFile,
		FieldTypeDate,
		FieldTypeSignature,
	}
}

// IsValid checks if the field type is valid
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText,
		FieldTypeTextarea,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypeRadio,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeFile,
		FieldTypeDate,
		FieldTypeSignature:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type takes an option list
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeRadio, FieldTypeSelect, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// CanTrigger reports whether fields of this type may carry conditional rules.
// Only single discrete answers can be compared against a trigger value.
func (t FieldType) CanTrigger() bool {
	return t == FieldTypeRadio || t == FieldTypeSelect
}

// IsPayload reports whether the answer is a pre-encoded data-URI payload
func (t FieldType) IsPayload() bool {
	return t == FieldTypeFile || t == FieldTypeSignature
}

// String returns the string representation of the field type
func (t FieldType) String() string {
	return string(t)
}

// ParseFieldType parses a string into a FieldType
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid field type: %s", s)
	}
	return t, nil
}
