package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// AnswerValue is a stored answer: a single string, or a list of strings for
// checkbox choice groups.
type AnswerValue struct {
	text  string
	list  []string
	multi bool
}

// TextValue creates a single string answer
func TextValue(s string) AnswerValue {
	return AnswerValue{text: s}
}

// ListValue creates a multi-valued answer
func ListValue(values []string) AnswerValue {
	list := make([]string, len(values))
	copy(list, values)
	return AnswerValue{list: list, multi: true}
}

// IsList reports whether the answer holds a list
func (v AnswerValue) IsList() bool {
	return v.multi
}

// Text returns the single string answer; empty for lists
func (v AnswerValue) Text() string {
	return v.text
}

// List returns a copy of the list answer; nil for single answers
func (v AnswerValue) List() []string {
	if !v.multi {
		return nil
	}
	list := make([]string, len(v.list))
	copy(list, v.list)
	return list
}

// String renders the answer as one cell; lists are joined with ", "
func (v AnswerValue) String() string {
	if v.multi {
		return strings.Join(v.list, ", ")
	}
	return v.text
}

// Any returns the value as a plain string or []string, the shape stored in
// documents.
func (v AnswerValue) Any() any {
	if v.multi {
		return v.List()
	}
	return v.text
}

// AnswerValueFrom converts a decoded document value back to an AnswerValue
func AnswerValueFrom(raw any) (AnswerValue, error) {
	switch val := raw.(type) {
	case nil:
		return TextValue(""), nil
	case string:
		return TextValue(val), nil
	case []string:
		return ListValue(val), nil
	case []any:
		list := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return AnswerValue{}, goerr.Wrap(ErrInvalidAnswerValue, "list answer must contain strings",
					goerr.V(ActualTypeKey, fmt.Sprintf("%T", item)))
			}
			list[i] = s
		}
		return ListValue(list), nil
	default:
		// Older documents may hold raw scalars; keep their text form.
		return TextValue(fmt.Sprint(val)), nil
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to decode answer value")
	}
	parsed, err := AnswerValueFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Record is one answered live field of a submission
type Record struct {
	FieldID string      `json:"fieldId"`
	Value   AnswerValue `json:"value"`
}

// RawAnswer is one inbound answer as sent by a submitter
type RawAnswer struct {
	FieldID string `json:"fieldId"`
	Value   any    `json:"value"`
}

// RawInput maps a field id to its raw, not yet coerced answer
type RawInput map[string]any

// ParseRawAnswers turns an ordered answer list into a RawInput. An entry
// without field id is rejected; a repeated id keeps the last value.
func ParseRawAnswers(answers []RawAnswer) (RawInput, error) {
	input := make(RawInput, len(answers))
	for i, a := range answers {
		id := strings.TrimSpace(a.FieldID)
		if id == "" {
			return nil, goerr.Wrap(ErrMissingFieldID, "answer without field id", goerr.V("index", i))
		}
		input[id] = a.Value
	}
	return input, nil
}

// ResolveLegacyKeys maps label-derived keys onto field ids. Keys that are
// already field ids always win over a legacy key for the same field. Fields
// sharing a label all receive the legacy answer.
func (in RawInput) ResolveLegacyKeys(fields []FieldDefinition) RawInput {
	resolved := make(RawInput, len(in))
	for k, v := range in {
		resolved[k] = v
	}

	ids := make(map[string]bool, len(fields))
	for _, f := range fields {
		ids[f.ID] = true
	}

	consumed := make(map[string]bool)
	for _, f := range fields {
		if f.ID == "" {
			continue
		}
		if _, ok := in[f.ID]; ok {
			continue
		}
		key := f.LegacyKey()
		if key == "" || ids[key] {
			continue
		}
		if v, ok := in[key]; ok {
			resolved[f.ID] = v
			consumed[key] = true
		}
	}
	for key := range consumed {
		delete(resolved, key)
	}

	return resolved
}
