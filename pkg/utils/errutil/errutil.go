package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

// Handle logs the error with its goerr values and reports it to Sentry.
// Use it for failures no caller will see, such as background tasks.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	report(ctx, err)
}

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Message       string         `json:"message"`
	MissingFields []string       `json:"missingFields,omitempty"`
	InvalidFields []InvalidField `json:"invalidFields,omitempty"`
}

// InvalidField is a rejected answer reported back to the submitter
type InvalidField struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Reason  string `json:"reason"`
}

// HandleHTTP logs the error and writes body as a JSON error response. Server
// failures are logged at error level and reported to Sentry, and their cause
// is never sent to the client. 501 is an expected answer, not a failure.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, body *ErrorResponse) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	attrs := []any{"status", statusCode, "error", err.Error()}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs, "values", ge.Values())
		if isServerFailure(statusCode) {
			attrs = append(attrs, "stack", ge.Stacks())
		}
	}

	if isServerFailure(statusCode) {
		logger.Error("HTTP error", attrs...)
		report(ctx, err)
		body = &ErrorResponse{Message: http.StatusText(statusCode)}
	} else {
		logger.Warn("HTTP error", attrs...)
	}

	if body == nil {
		body = &ErrorResponse{Message: http.StatusText(statusCode)}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write error response", logging.ErrAttr(err))
	}
}

func isServerFailure(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError && statusCode != http.StatusNotImplemented
}

// report sends err to Sentry. It does nothing when Sentry is not initialized.
func report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		var ge *goerr.Error
		if errors.As(err, &ge) {
			scope.SetContext("goerr", sentry.Context(ge.Values()))
		}
		hub.CaptureException(err)
	})
}
