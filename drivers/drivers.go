// Package drivers supplies text lines from devices and log files.
package drivers

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

const (
	LOG_NAME            = "RAWLOG"
	LOG_EXT             = ".txt"
	WRITE_EVERY_N_LINES = 100
	MAX_LINE_LENGTH     = 64 * 1024
	INITIAL_LINE_BUFFER = 4 * 1024
)

type Driver interface {
	Init() error
	// Run delivers lines until the source is exhausted or ctx is cancelled.
	Run(ctx context.Context) error
	Close() error
}

// Sink receives every line a driver reads, in order.
type Sink interface {
	Feed(ctx context.Context, line string) error
}

// scanLines calls fn with every line of reader, without line terminators.
func scanLines(reader io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, INITIAL_LINE_BUFFER), MAX_LINE_LENGTH)
	for scanner.Scan() {
		if err := fn(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// closeGuard orders shutdown for drivers that read a device and copy lines to
// a raw log. Cancelling Run only closes the source to unblock the read, the
// raw log belongs to Run until it returns. Close handles the raw log itself
// only when Run is not active.
type closeGuard struct {
	mu      sync.Mutex
	running bool

	sourceOnce sync.Once
	sourceErr  error
	logOnce    sync.Once
	logErr     error
}

func (g *closeGuard) start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = true
}

// finish is deferred by Run once the read loop is done.
func (g *closeGuard) finish(rawLog *RawLog) error {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
	return g.closeLog(rawLog)
}

func (g *closeGuard) closeSource(source io.Closer) error {
	g.sourceOnce.Do(func() {
		if source != nil {
			g.sourceErr = source.Close()
		}
	})
	return g.sourceErr
}

func (g *closeGuard) closeLog(rawLog *RawLog) error {
	g.logOnce.Do(func() {
		g.logErr = rawLog.Close()
	})
	return g.logErr
}

func (g *closeGuard) close(source io.Closer, rawLog *RawLog) error {
	err := g.closeSource(source)

	g.mu.Lock()
	running := g.running
	g.mu.Unlock()
	if running {
		return err
	}
	if logErr := g.closeLog(rawLog); logErr != nil && err == nil {
		err = logErr
	}
	return err
}
