//go:build linux

package drivers

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"go.einride.tech/can/pkg/socketcan"
	"serialplot/config"
)

const DIAL_TIMEOUT = 2 * time.Second

// SocketCAN plots the data bytes of every frame received on a CAN interface.
type SocketCAN struct {
	*config.SocketCANFlags
	sink   Sink
	logDir string

	conn   net.Conn
	rawLog *RawLog
	guard  closeGuard
}

func NewSocketCAN(flags *config.SocketCANFlags, sink Sink, logDir string) *SocketCAN {
	return &SocketCAN{
		SocketCANFlags: flags,
		sink:           sink,
		logDir:         logDir,
	}
}

func (p *SocketCAN) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), DIAL_TIMEOUT)
	defer cancel()

	conn, err := socketcan.DialContext(ctx, "can", p.Interface)
	if err != nil {
		return fmt.Errorf("socketCAN open %s: %w", p.Interface, err)
	}
	p.conn = conn

	if p.logDir != "" {
		p.rawLog, err = OpenRawLog(p.logDir)
		if err != nil {
			_ = conn.Close()
			return err
		}
		log.Printf("logging raw lines to %s", p.rawLog.Path())
	}
	log.Printf("listening on %s", p.Interface)
	return nil
}

func (p *SocketCAN) Run(ctx context.Context) error {
	p.guard.start()
	defer func() {
		if err := p.guard.finish(p.rawLog); err != nil {
			log.Printf("couldn't close raw log: %s", err)
		}
	}()
	stop := context.AfterFunc(ctx, func() { _ = p.guard.closeSource(p.conn) })
	defer stop()

	receiver := socketcan.NewReceiver(p.conn)
	for receiver.Receive() {
		if receiver.HasErrorFrame() {
			log.Printf("CAN error frame: %v", receiver.ErrorFrame())
			continue
		}
		line, ok := FrameLine(receiver.Frame())
		if !ok {
			continue
		}
		if err := p.rawLog.Write(time.Now().UnixMilli(), line); err != nil {
			log.Printf("raw write: %v", err)
		}
		if err := p.sink.Feed(ctx, line); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := receiver.Err(); err != nil {
		return fmt.Errorf("receive on %s: %w", p.Interface, err)
	}
	return nil
}

func (p *SocketCAN) Close() error {
	return p.guard.close(p.conn, p.rawLog)
}
