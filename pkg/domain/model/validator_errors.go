package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Authoring errors
var (
	ErrInvalidFieldConfig = goerr.New("invalid field configuration")
)

// Submission errors
var (
	ErrMissingRequiredField = goerr.New("required field is missing")
	ErrEmptySubmission      = goerr.New("submission is empty")
	ErrMissingFieldID       = goerr.New("answer has no field id")
	ErrInvalidAnswerValue   = goerr.New("invalid answer value")
)

// Export errors
var (
	ErrNotImplemented          = goerr.New("export format is not implemented")
	ErrUnsupportedExportFormat = goerr.New("unsupported export format")
)

// Context keys for error values
const (
	FieldIDKey      = "field_id"
	FieldTypeKey    = "field_type"
	FieldLabelKey   = "field_label"
	FieldIndexKey   = "field_index"
	OptionKey       = "option"
	RuleIndexKey    = "rule_index"
	TargetFieldKey  = "target_field_id"
	ActualTypeKey   = "actual_type"
	FormatKey       = "format"
	MissingLabelKey = "missing_labels"
	InvalidLabelKey = "invalid_labels"
)

// InvalidAnswer is a live field whose answer was rejected
type InvalidAnswer struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Reason  string `json:"reason"`
}

// ValidationError lists every required live field left unanswered and every
// live answer rejected by its field, so one response carries both.
type ValidationError struct {
	Missing []string
	Invalid []InvalidAnswer
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "required fields are missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		labels := make([]string, len(e.Invalid))
		for i, inv := range e.Invalid {
			labels[i] = inv.Label
		}
		parts = append(parts, "invalid answers: "+strings.Join(labels, ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	var errs []error
	if len(e.Missing) > 0 {
		errs = append(errs, ErrMissingRequiredField)
	}
	if len(e.Invalid) > 0 {
		errs = append(errs, ErrInvalidAnswerValue)
	}
	return errs
}
