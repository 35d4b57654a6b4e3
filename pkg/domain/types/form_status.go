package types

import "fmt"

// FormStatus represents the publication status of a form
type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"
	FormStatusPublished FormStatus = "published"
)

// AllFormStatuses returns all valid form statuses
func AllFormStatuses() []FormStatus {
	return []FormStatus{
		FormStatusDraft,
		FormStatusPublished,
	}
}

// IsValid checks if the form status is valid
func (s FormStatus) IsValid() bool {
	switch s {
	case FormStatusDraft,
		FormStatusPublished:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as FormStatusDraft.
func (s FormStatus) Normalize() FormStatus {
	if s == "" {
		return FormStatusDraft
	}
	return s
}

// String returns the string representation of the form status
func (s FormStatus) String() string {
	return string(s)
}

// ParseFormStatus parses a string into a FormStatus
func ParseFormStatus(s string) (FormStatus, error) {
	status := FormStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid form status: %s", s)
	}
	return status, nil
}
