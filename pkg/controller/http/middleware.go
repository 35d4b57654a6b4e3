package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/utils/errutil"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

type ctxOwnerKey struct{}

var errOwnerRequired = goerr.New("owner identity is required")

// requestLogger binds a logger carrying the request id to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default()
		if id := middleware.GetReqID(r.Context()); id != "" {
			logger = logger.With("request_id", id)
		}
		ctx := logging.With(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerMiddleware rejects requests without the owner header and stores the
// owner id in the request context
func ownerMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(header))
			if owner == "" {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(errOwnerRequired, "missing owner header", goerr.V("header", header)),
					http.StatusUnauthorized,
					&errutil.ErrorResponse{Message: "authentication required"})
				return
			}

			ctx := context.WithValue(r.Context(), ctxOwnerKey{}, owner)
			ctx = logging.With(ctx, logging.From(ctx).With("owner_id", owner))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ctxOwnerKey{}).(string)
	return owner
}
