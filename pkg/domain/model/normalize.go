package model

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

// NormalizeSubmission coerces the raw answers of the live fields into the
// canonical records to store, in field order.
//
// Every live required field left blank and every malformed live answer is
// reported in a single ValidationError. Fields without id are dropped and
// logged. A result with no record at all is ErrEmptySubmission.
func NormalizeSubmission(ctx context.Context, fields []FieldDefinition, visible VisibleSet, raw RawInput) ([]Record, error) {
	var records []Record
	var missing []string
	var invalid []InvalidAnswer

	for i := range fields {
		field := &fields[i]

		if field.ID == "" {
			logging.From(ctx).Warn("dropping field without id from submission",
				"field_index", i,
				"field_label", field.Label,
				"field_type", field.Type,
			)
			continue
		}
		if !visible.Has(field.ID) {
			continue
		}

		value, present, err := normalizeAnswer(field, raw[field.ID])
		if err != nil {
			logging.From(ctx).Debug("rejected answer",
				"field_id", field.ID,
				"field_type", field.Type,
				logging.ErrAttr(err),
			)
			invalid = append(invalid, InvalidAnswer{
				FieldID: field.ID,
				Label:   field.DisplayLabel(),
				Reason:  reasonOf(err),
			})
			continue
		}

		switch {
		case field.Required && !present:
			missing = append(missing, field.DisplayLabel())
		case field.IsToggle():
			// An unticked optional toggle is still a recorded answer
			records = append(records, Record{FieldID: field.ID, Value: value})
		case present:
			records = append(records, Record{FieldID: field.ID, Value: value})
		}
	}

	if len(missing) > 0 || len(invalid) > 0 {
		labels := make([]string, len(invalid))
		for i, inv := range invalid {
			labels[i] = inv.Label
		}
		return nil, goerr.Wrap(&ValidationError{Missing: missing, Invalid: invalid}, "submission is not valid",
			goerr.V(MissingLabelKey, missing),
			goerr.V(InvalidLabelKey, labels))
	}
	if len(records) == 0 {
		return nil, goerr.Wrap(ErrEmptySubmission, "no answer to record")
	}

	return records, nil
}

// reasonOf returns the outermost message of an answer error
func reasonOf(err error) string {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if msg := ge.Printable().Message; msg != "" {
			return msg
		}
	}
	return err.Error()
}

// normalizeAnswer returns the canonical value of one answer and whether it
// counts as answered.
func normalizeAnswer(field *FieldDefinition, raw any) (AnswerValue, bool, error) {
	switch {
	case field.IsChoiceGroup():
		selected, err := selectedOptions(field, raw)
		if err != nil {
			return AnswerValue{}, false, err
		}
		return ListValue(selected), len(selected) > 0, nil

	case field.IsToggle():
		checked, err := coerceToggle(raw)
		if err != nil {
			return AnswerValue{}, false, err
		}
		return TextValue(strconv.FormatBool(checked)), checked, nil

	case field.Type.IsPayload():
		return normalizePayload(field, raw)

	default:
		return normalizeText(field, raw)
	}
}

// selectedOptions returns the ticked options in option order. Ticked values
// that are not options are ignored.
func selectedOptions(field *FieldDefinition, raw any) ([]string, error) {
	ticked := make(map[string]bool)

	switch val := raw.(type) {
	case nil:
	case string:
		ticked[strings.TrimSpace(val)] = true
	case []string:
		for _, s := range val {
			ticked[s] = true
		}
	case []any:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, goerr.Wrap(ErrInvalidAnswerValue, "choice list must contain strings",
					goerr.V(ActualTypeKey, fmt.Sprintf("%T", item)))
			}
			ticked[s] = true
		}
	case map[string]bool:
		for k, v := range val {
			ticked[k] = v
		}
	case map[string]any:
		for k, v := range val {
			on, err := coerceToggle(v)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid option toggle", goerr.V(OptionKey, k))
			}
			ticked[k] = on
		}
	default:
		return nil, goerr.Wrap(ErrInvalidAnswerValue, "choice group answer must be a list or an option map",
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}

	selected := []string{}
	for _, opt := range field.Options {
		if ticked[opt] {
			selected = append(selected, opt)
		}
	}
	return selected, nil
}

func coerceToggle(raw any) (bool, error) {
	switch val := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case float64:
		return val != 0, nil
	case int:
		return val != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "false", "0", "off", "no":
			return false, nil
		case "true", "1", "on", "yes":
			return true, nil
		}
	}
	return false, goerr.Wrap(ErrInvalidAnswerValue, "toggle answer must be a boolean",
		goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
}

// normalizePayload accepts a data-URI encoded file or signature and keeps it
// verbatim.
func normalizePayload(field *FieldDefinition, raw any) (AnswerValue, bool, error) {
	if raw == nil {
		return AnswerValue{}, false, nil
	}
	payload, ok := raw.(string)
	if !ok {
		return AnswerValue{}, false, goerr.Wrap(ErrInvalidAnswerValue, "payload must be a data URI string",
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}
	if strings.TrimSpace(payload) == "" {
		return AnswerValue{}, false, nil
	}

	uri, err := parseDataURI(payload)
	if err != nil {
		return AnswerValue{}, false, err
	}

	if field.Type == types.FieldTypeFile && field.FileConfig != nil {
		category := uri.category()
		if !field.FileConfig.Allows(category) {
			return AnswerValue{}, false, goerr.Wrap(ErrInvalidAnswerValue, "file type is not allowed",
				goerr.V("media_type", uri.mediaType),
				goerr.V("category", category))
		}
		maxSizeMB := field.FileConfig.MaxSizeMB
		if maxSizeMB <= 0 {
			maxSizeMB = DefaultMaxFileSizeMB
		}
		if uri.size > int64(maxSizeMB)*1024*1024 {
			return AnswerValue{}, false, goerr.Wrap(ErrInvalidAnswerValue, "file exceeds size limit",
				goerr.V("size", uri.size),
				goerr.V("max_size_mb", maxSizeMB))
		}
	}

	return TextValue(payload), true, nil
}

type dataURI struct {
	mediaType string
	size      int64
}

// parseDataURI reads the header of "data:[<mediatype>][;base64],<data>" and
// estimates the decoded size without decoding the body.
func parseDataURI(s string) (*dataURI, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, goerr.Wrap(ErrInvalidAnswerValue, "payload is not a data URI")
	}
	header, body, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, goerr.Wrap(ErrInvalidAnswerValue, "data URI has no data section")
	}

	params := strings.Split(header, ";")
	uri := &dataURI{mediaType: strings.ToLower(strings.TrimSpace(params[0]))}
	if uri.mediaType == "" {
		uri.mediaType = "text/plain"
	}

	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	if isBase64 {
		padding := len(body) - len(strings.TrimRight(body, "="))
		uri.size = int64(base64.StdEncoding.DecodedLen(len(body)) - padding)
	} else {
		uri.size = int64(len(body))
	}

	return uri, nil
}

func isDocumentMediaType(mediaType string) bool {
	switch {
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/pdf",
		mediaType == "application/msword",
		mediaType == "application/rtf",
		strings.HasPrefix(mediaType, "application/vnd.ms-"),
		strings.HasPrefix(mediaType, "application/vnd.oasis.opendocument."),
		strings.HasPrefix(mediaType, "application/vnd.openxmlformats-officedocument."):
		return true
	default:
		return false
	}
}

func (u *dataURI) category() types.FileCategory {
	switch {
	case strings.HasPrefix(u.mediaType, "image/"):
		return types.FileCategoryImage
	case isDocumentMediaType(u.mediaType):
		return types.FileCategoryDocument
	default:
		return types.FileCategoryOther
	}
}

// normalizeText trims and stringifies a text-like answer, then checks the
// format the field type implies. Numeric zero is an answer.
func normalizeText(field *FieldDefinition, raw any) (AnswerValue, bool, error) {
	var text string
	exact := true

	switch val := raw.(type) {
	case nil:
		return AnswerValue{}, false, nil
	case string:
		text = strings.TrimSpace(val)
		exact = text == val
	case float64:
		text = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		text = strconv.Itoa(val)
	case int64:
		text = strconv.FormatInt(val, 10)
	case json.Number:
		text = val.String()
	case bool:
		text = strconv.FormatBool(val)
	default:
		return AnswerValue{}, false, goerr.Wrap(ErrInvalidAnswerValue, "answer must be a single value",
			goerr.V(ActualTypeKey, fmt.Sprintf("%T", raw)))
	}

	if text == "" {
		return AnswerValue{}, false, nil
	}

	if err := checkTextFormat(field, text, exact); err != nil {
		return AnswerValue{}, false, err
	}

	return TextValue(text), true, nil
}

// checkTextFormat checks number, email and option answers. Dates and free
// text are stored as given. An option answer must match exactly, untrimmed,
// because visibility rules compare the raw answer.
func checkTextFormat(field *FieldDefinition, text string, exact bool) error {
	switch field.Type {
	case types.FieldTypeNumber:
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return goerr.Wrap(ErrInvalidAnswerValue, "answer is not a number", goerr.V("value", text))
		}

	case types.FieldTypeEmail:
		if _, err := mail.ParseAddress(text); err != nil {
			return goerr.Wrap(ErrInvalidAnswerValue, "answer is not an email address", goerr.V("value", text))
		}

	case types.FieldTypeRadio, types.FieldTypeSelect:
		if !exact || !field.HasOption(text) {
			return goerr.Wrap(ErrInvalidAnswerValue, "answer is not an option of the field",
				goerr.V(OptionKey, text))
		}
	}
	return nil
}
