package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/formgate/pkg/utils/errutil"
	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

var inflight sync.WaitGroup

// Dispatch executes a named task asynchronously in a new goroutine. The task
// gets a background context carrying the caller's logger, so it outlives
// the request that started it. Errors and panics are logged and reported.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx).With("task", name))

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				errutil.Handle(bgCtx, goerr.New("panic in async task", goerr.V("panic", r)), "async task panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Handle(bgCtx, err, "async task failed")
		}
	}()
}

// Wait blocks until every dispatched task has returned. It is used on
// shutdown and in tests.
func Wait() {
	inflight.Wait()
}
