package safe_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/formgate/pkg/utils/safe"
)

type failingCloser struct{ closed bool }

func (c *failingCloser) Close() error {
	c.closed = true
	return errors.New("boom")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestClose(t *testing.T) {
	c := &failingCloser{}
	safe.Close(context.Background(), c)
	gt.B(t, c.closed).True()

	safe.Close(context.Background(), nil)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	safe.Write(context.Background(), &buf, []byte("hello"))
	gt.V(t, buf.String()).Equal("hello")

	safe.Write(context.Background(), failingWriter{}, []byte("hello"))
	safe.Write(context.Background(), nil, []byte("hello"))
}
