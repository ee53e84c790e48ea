// Package session runs a plotter.Engine on a single goroutine and publishes
// what it draws as frames.
//
// Lines from a driver and commands from the views are queued and handled one
// at a time, so the engine never needs locking. Redraw requests only mark the
// session dirty; frames go out at most FRAMERATE times per second.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"serialplot/events"
	"serialplot/plotter"
)

const (
	FRAMERATE          = 30
	LINE_QUEUE_SIZE    = 1024
	CONTROL_QUEUE_SIZE = 64
	// MAX_FRAME_POINTS caps the points per channel in one frame.
	MAX_FRAME_POINTS = 2000
	// REJECT_LOG_INTERVAL rate limits the rejected line log.
	REJECT_LOG_INTERVAL = time.Second
)

var ErrClosed = errors.New("session closed")

type Session struct {
	engine     *plotter.Engine
	canvas     *canvas
	horizontal *scrollProxy
	vertical   *scrollProxy
	hub        *events.EventHub

	lines   chan string
	control chan func(*plotter.Engine)
	done    chan struct{}

	frameInterval time.Duration
	now           func() time.Time

	dirty    bool
	seq      uint64
	accepted int
	rejected int

	rejectedSinceLog int
	lastRejectLog    time.Time
}

type Option func(*Session)

// WithFrameInterval overrides the 1/FRAMERATE publishing interval.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Session) {
		s.frameInterval = d
	}
}

func New(options plotter.Options, hub *events.EventHub, opts ...Option) (*Session, error) {
	s := &Session{
		hub:           hub,
		lines:         make(chan string, LINE_QUEUE_SIZE),
		control:       make(chan func(*plotter.Engine), CONTROL_QUEUE_SIZE),
		done:          make(chan struct{}),
		frameInterval: time.Second / FRAMERATE,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	markDirty := func() { s.dirty = true }
	s.canvas = newCanvas(markDirty)
	s.horizontal = newScrollProxy(markDirty)
	s.vertical = newScrollProxy(markDirty)

	engine, err := plotter.New(s.canvas, s.horizontal, s.vertical, options)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Feed queues a received line. It blocks while the queue is full.
func (s *Session) Feed(ctx context.Context, line string) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.lines <- line:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues fn to run on the session goroutine and returns without
// waiting for it.
func (s *Session) Submit(ctx context.Context, fn func(*plotter.Engine)) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.control <- fn:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*plotter.Engine)) error {
	finished := make(chan struct{})
	err := s.Submit(ctx, func(e *plotter.Engine) {
		defer close(finished)
		fn(e)
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		// fn may have run just before the loop exited.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run handles queued lines and commands until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	s.publish()
	for {
		select {
		case <-ctx.Done():
			s.flushRejectLog()
			return ctx.Err()
		case line := <-s.lines:
			s.handleLine(line)
		case fn := <-s.control:
			fn(s.engine)
		case <-ticker.C:
			if s.dirty {
				s.publish()
			}
		}
	}
}

func (s *Session) handleLine(line string) {
	if err := s.engine.OnLine(line); err != nil {
		s.rejected++
		s.rejectedSinceLog++
		s.dirty = true
		if s.now().Sub(s.lastRejectLog) >= REJECT_LOG_INTERVAL {
			log.Printf("rejected line %q: %v (%d rejected since last report)", line, err, s.rejectedSinceLog)
			s.lastRejectLog = s.now()
			s.rejectedSinceLog = 0
		}
		return
	}
	s.accepted++
}

func (s *Session) flushRejectLog() {
	if s.rejectedSinceLog > 0 {
		log.Printf("%d more lines rejected, %d in total", s.rejectedSinceLog, s.rejected)
	}
}

func (s *Session) publish() {
	s.seq++
	s.dirty = false
	frame := s.buildFrame()
	s.hub.Broadcast(&events.Event{Timestamp: frame.Timestamp, Frame: frame})
}
