package drivers

import (
	"context"
	"io"
)

// Reader feeds the lines of an arbitrary stream, typically stdin.
type Reader struct {
	reader io.Reader
	sink   Sink
}

func NewReader(reader io.Reader, sink Sink) *Reader {
	return &Reader{reader, sink}
}

func (r *Reader) Init() error {
	return nil
}

// Run returns when the stream ends or ctx is cancelled. A read blocked on a
// stream that can't be interrupted is left behind on cancellation.
func (r *Reader) Run(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- scanLines(r.reader, func(line string) error {
			return r.sink.Feed(ctx, line)
		})
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Reader) Close() error {
	if closer, ok := r.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
