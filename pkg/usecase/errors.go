package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrFormNotFound  = errors.New("form not found")
	ErrNoSubmissions = errors.New("form has no submissions")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNoFields     = errors.New("form has no fields")
)

// Context keys for error values
const (
	FormIDKey  = "form_id"
	OwnerIDKey = "owner_id"
	FormatKey  = "format"
)
