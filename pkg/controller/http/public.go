package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/domain/model"
)

type submitResponse struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submittedAt"`
}

func (s *Server) publicFormHandler(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Submission.GetPublicForm(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, s.maxBodySize)
	if err != nil {
		handleError(w, r, err)
		return
	}

	raw, err := decodeAnswers(data)
	if err != nil {
		handleError(w, r, err)
		return
	}

	submission, err := s.uc.Submission.Submit(r.Context(), chi.URLParam(r, "token"), raw)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, submitResponse{
		ID:          submission.ID,
		SubmittedAt: submission.SubmittedAt.UTC().Format(time.RFC3339),
	})
}

// decodeAnswers accepts {"answers":[{"fieldId":..,"value":..}]} or a keyed
// object. A keyed form whose field is itself named "answers" does not decode
// as a list and falls through to the keyed shape, as does an empty list sent
// next to other keys.
func decodeAnswers(data []byte) (model.RawInput, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err == nil {
		var answers []model.RawAnswer
		if rawList, ok := envelope["answers"]; ok && json.Unmarshal(rawList, &answers) == nil && answers != nil {
			if len(answers) > 0 || len(envelope) == 1 {
				return model.ParseRawAnswers(answers)
			}
		}
	}

	var keyed map[string]any
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, goerr.Wrap(errInvalidBody, "submission must be a JSON object", goerr.V("cause", err.Error()))
	}
	if keyed == nil {
		return nil, goerr.Wrap(errInvalidBody, "submission must be a JSON object")
	}
	return model.RawInput(keyed), nil
}
