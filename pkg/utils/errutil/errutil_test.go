package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("client error keeps the body", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := goerr.New("bad input", goerr.V("field_id", "f1"))
		errutil.HandleHTTP(context.Background(), w, err, http.StatusBadRequest, &errutil.ErrorResponse{
			Message:       "required fields are missing",
			MissingFields: []string{"Name"},
		})

		gt.V(t, w.Code).Equal(http.StatusBadRequest)
		gt.V(t, w.Header().Get("Content-Type")).Equal("application/json")

		var body errutil.ErrorResponse
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.V(t, body.Message).Equal("required fields are missing")
		gt.V(t, body.MissingFields).Equal([]string{"Name"})
	})

	t.Run("server error hides the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, goerr.New("db password leaked"), http.StatusInternalServerError,
			&errutil.ErrorResponse{Message: "db password leaked"})

		gt.V(t, w.Code).Equal(http.StatusInternalServerError)
		var body errutil.ErrorResponse
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.V(t, body.Message).Equal("Internal Server Error")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, nil, http.StatusBadRequest, nil)
		gt.V(t, w.Body.Len()).Equal(0)
	})
}

func newCapturingHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	gt.NoError(t, err).Required()
	return sentry.NewHub(client, sentry.NewScope()), &events
}

func TestHandle_ReportsGoerrValues(t *testing.T) {
	hub, events := newCapturingHub(t)
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	errutil.Handle(ctx, goerr.New("view increment failed", goerr.V("form_id", "form-1")), "background task failed")

	gt.A(t, *events).Length(1).Required()
	values, ok := (*events)[0].Contexts["goerr"]
	gt.B(t, ok).True()
	gt.V(t, values["form_id"]).Equal(any("form-1"))
}

func TestHandleHTTP_NotImplementedIsNotReported(t *testing.T) {
	hub, events := newCapturingHub(t)
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	w := httptest.NewRecorder()
	errutil.HandleHTTP(ctx, w, goerr.New("pdf export"), http.StatusNotImplemented,
		&errutil.ErrorResponse{Message: "pdf export"})

	gt.V(t, w.Code).Equal(http.StatusNotImplemented)
	gt.A(t, *events).Length(0)
}
