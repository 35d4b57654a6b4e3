package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/usecase"
	"github.com/secmon-lab/formgate/pkg/utils/errutil"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
	"github.com/secmon-lab/formgate/pkg/utils/safe"
)

var errInvalidBody = goerr.New("invalid request body")

var badRequestErrors = []error{
	errInvalidBody,
	model.ErrInvalidFieldConfig,
	model.ErrMissingRequiredField,
	model.ErrEmptySubmission,
	model.ErrMissingFieldID,
	model.ErrInvalidAnswerValue,
	model.ErrUnsupportedExportFormat,
	usecase.ErrInvalidInput,
	usecase.ErrNoFields,
}

// statusOf maps a use case error to the response status
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrFormNotFound), errors.Is(err, usecase.ErrNoSubmissions):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotImplemented):
		return http.StatusNotImplemented
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := &errutil.ErrorResponse{Message: err.Error()}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		body.Message = "submission is not valid"
		if len(verr.Invalid) == 0 {
			body.Message = "required fields are missing"
		}
		body.MissingFields = verr.Missing
		for _, inv := range verr.Invalid {
			body.InvalidFields = append(body.InvalidFields, errutil.InvalidField{
				FieldID: inv.FieldID,
				Label:   inv.Label,
				Reason:  inv.Reason,
			})
		}
	}

	errutil.HandleHTTP(r.Context(), w, err, status, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// readBody reads the request body, capped at limit bytes
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer safe.Close(r.Context(), body)

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, goerr.Wrap(errInvalidBody, "request body is too large", goerr.V("limit", tooLarge.Limit))
		}
		return nil, goerr.Wrap(err, "failed to read request body")
	}
	return data, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	data, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		logging.From(r.Context()).Debug("undecodable request body", logging.ErrAttr(err))
		return goerr.Wrap(errInvalidBody, "request body is not valid JSON", goerr.V("cause", err.Error()))
	}
	return nil
}
