package drivers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"serialplot/utils"
)

// RawLog records received lines as "<millis>\t<line>" so a session can be
// replayed with its original timing. A nil *RawLog discards everything.
type RawLog struct {
	file   *os.File
	writer *bufio.Writer
	lines  int
}

// OpenRawLog creates the next free RAWLOG file in dir.
func OpenRawLog(dir string) (*RawLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	filePath := utils.NextAvailableFilename(dir, LOG_NAME, LOG_EXT)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open rawlog: %w", err)
	}
	return &RawLog{
		file:   file,
		writer: bufio.NewWriterSize(file, 1<<20),
	}, nil
}

func (l *RawLog) Path() string {
	if l == nil {
		return ""
	}
	return l.file.Name()
}

func (l *RawLog) Write(millis int64, line string) error {
	if l == nil {
		return nil
	}
	if _, err := fmt.Fprintf(l.writer, "%d\t%s\n", millis, line); err != nil {
		return err
	}
	l.lines++
	if (l.lines % WRITE_EVERY_N_LINES) == 0 {
		return l.writer.Flush()
	}
	return nil
}

func (l *RawLog) Flush() error {
	if l == nil {
		return nil
	}
	return l.writer.Flush()
}

func (l *RawLog) Close() error {
	if l == nil {
		return nil
	}
	flushErr := l.writer.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return flushErr
}

// ParseRawLine splits a raw log record into its timestamp and line. Records
// without a timestamp are returned unchanged with stamped=false, so plain
// text files replay too.
func ParseRawLine(record string) (millis int64, line string, stamped bool) {
	stamp, rest, found := strings.Cut(record, "\t")
	if !found {
		return 0, record, false
	}
	millis, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return 0, record, false
	}
	return millis, rest, true
}
