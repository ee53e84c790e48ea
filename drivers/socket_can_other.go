//go:build !linux

package drivers

import (
	"context"
	"errors"

	"serialplot/config"
)

var errSocketCANUnsupported = errors.New("socket-can is only available on linux")

type SocketCAN struct {
	*config.SocketCANFlags
}

func NewSocketCAN(flags *config.SocketCANFlags, _ Sink, _ string) *SocketCAN {
	return &SocketCAN{flags}
}

func (p *SocketCAN) Init() error {
	return errSocketCANUnsupported
}

func (p *SocketCAN) Run(context.Context) error {
	return errSocketCANUnsupported
}

func (p *SocketCAN) Close() error {
	return nil
}
