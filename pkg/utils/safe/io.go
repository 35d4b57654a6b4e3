package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/secmon-lab/formgate/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. A nil
// closer is ignored. Use it in defer where the error has nowhere to go.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close",
			"target", fmt.Sprintf("%T", closer),
			logging.ErrAttr(err))
	}
}

// Write writes data to a response whose status is already committed, so a
// failure can only be logged.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if n, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write",
			"written", n,
			"size", len(data),
			logging.ErrAttr(err))
	}
}
