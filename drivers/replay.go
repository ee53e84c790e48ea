package drivers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"serialplot/config"
)

// Replayer feeds the lines of a raw log (or any text file) to the sink. With
// Follow set it keeps reading lines appended after EOF, like tail -f.
type Replayer struct {
	*config.ReplayFlags
	sink Sink
}

func NewReplayer(replayFlags *config.ReplayFlags, sink Sink) *Replayer {
	replayer := &Replayer{
		replayFlags,
		sink,
	}
	return replayer
}

func (r *Replayer) Init() error {
	info, err := os.Stat(r.Path)
	if err != nil {
		return fmt.Errorf("replay file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("replay file %s is a directory", r.Path)
	}
	return nil
}

func (r *Replayer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		emitted, err := r.playOnce(ctx)
		if err != nil {
			return err
		}
		if !r.Loop {
			return nil
		}
		if emitted == 0 {
			log.Printf("nothing to replay in %s, stopped looping", r.Path)
			return nil
		}
	}
}

func (r *Replayer) Close() error {
	return nil
}

// playOnce replays the file from the start and reports how many lines
// reached the sink.
func (r *Replayer) playOnce(ctx context.Context) (int, error) {
	file, err := os.Open(r.Path)
	if err != nil {
		return 0, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Printf("couldn't close file: %s", err)
		}
	}(file)

	bufferReader := bufio.NewReaderSize(file, 1<<20)

	var (
		first     = true
		prevMS    int64
		lineIndex = 0
		emitted   = 0
		pending   string
	)

	emit := func(record string) error {
		if lineIndex < r.SkipLines {
			lineIndex++
			return nil
		}
		lineIndex++

		millis, line, stamped := ParseRawLine(record)
		if stamped && r.Speed > 0 && !r.Follow {
			if first {
				first = false
				prevMS = millis
			}
			delta := time.Duration(millis - prevMS)
			if delta > 0 {
				if err := sleep(ctx, time.Duration(float64(delta)*float64(time.Millisecond)/r.Speed)); err != nil {
					return err
				}
			}
			prevMS = millis
		}
		emitted++
		return r.sink.Feed(ctx, line)
	}

	for {
		record, err := readRecord(bufferReader, &pending)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return emitted, err
		}
		if err := emit(record); err != nil {
			return emitted, err
		}
	}

	if r.Follow {
		err := r.follow(ctx, bufferReader, &pending, emit)
		return emitted, err
	}
	if pending != "" {
		// last line without a terminator
		if err := emit(strings.TrimRight(pending, "\r")); err != nil {
			return emitted, err
		}
	}
	log.Println("end of replay")
	return emitted, nil
}

// follow waits for writes to the replay file and emits every completed line.
func (r *Replayer) follow(ctx context.Context, reader *bufio.Reader, pending *string, emit func(string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", r.Path, err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(r.Path); err != nil {
		return fmt.Errorf("watch %s: %w", r.Path, err)
	}
	log.Printf("following %s", r.Path)

	for {
		// Drain whatever was appended before or while the watch was set up.
		for {
			record, err := readRecord(reader, pending)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := emit(record); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Printf("%s was removed, stopped following", r.Path)
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch %s: %v", r.Path, err)
		}
	}
}

// readRecord returns the next complete line. A partial line at EOF stays in
// pending until the rest of it arrives.
func readRecord(reader *bufio.Reader, pending *string) (string, error) {
	chunk, err := reader.ReadString('\n')
	*pending += chunk
	if err != nil {
		return "", err
	}
	record := strings.TrimRight(*pending, "\r\n")
	*pending = ""
	return record, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
