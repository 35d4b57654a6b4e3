package model

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one respondent's answers to the live fields of a form.
// Submissions are append-only.
type Submission struct {
	ID            string    `json:"id"`
	FormID        string    `json:"formId"`
	SchemaVersion int       `json:"schemaVersion"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Data          []Record  `json:"data"`
}

// NewSubmissionID generates an identifier for a new submission
func NewSubmissionID() string {
	return uuid.New().String()
}

// Lookup returns the answer recorded for fieldID
func (s *Submission) Lookup(fieldID string) (AnswerValue, bool) {
	for _, r := range s.Data {
		if r.FieldID == fieldID {
			return r.Value, true
		}
	}
	return AnswerValue{}, false
}

// Keys returns the field ids answered by the submission, in record order
func (s *Submission) Keys() []string {
	keys := make([]string, len(s.Data))
	for i, r := range s.Data {
		keys[i] = r.FieldID
	}
	return keys
}

// CopySubmission returns a deep copy of s
func CopySubmission(s *Submission) *Submission {
	copied := *s
	if s.Data != nil {
		copied.Data = make([]Record, len(s.Data))
		for i, r := range s.Data {
			copied.Data[i] = Record{FieldID: r.FieldID, Value: r.Value}
			if r.Value.IsList() {
				copied.Data[i].Value = ListValue(r.Value.List())
			}
		}
	}
	return &copied
}

// SubmissionKeys returns the union of answered field ids across submissions,
// in the order they are first encountered.
func SubmissionKeys(submissions []*Submission) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range submissions {
		for _, r := range s.Data {
			if !seen[r.FieldID] {
				seen[r.FieldID] = true
				keys = append(keys, r.FieldID)
			}
		}
	}
	return keys
}
