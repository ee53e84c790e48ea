package drivers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"serialplot/config"
)

var ErrNoPort = errors.New("no arduino serial ports found")

// Arduino & clones common VIDs
var preferredVIDs = map[string]bool{
	"2341": true, // Arduino
	"2A03": true, // Arduino (older)
	"1A86": true, // CH340
	"10C4": true, // CP210x
	"0403": true, // FTDI
}

// Arduino reads newline terminated text from a serial port.
type Arduino struct {
	*config.SerialFlags
	sink   Sink
	logDir string

	port   serial.Port
	rawLog *RawLog
	guard  closeGuard
}

// NewArduino creates the serial driver. An empty logDir disables the raw log.
func NewArduino(serialFlags *config.SerialFlags, sink Sink, logDir string) *Arduino {
	return &Arduino{
		SerialFlags: serialFlags,
		sink:        sink,
		logDir:      logDir,
	}
}

func (a *Arduino) Init() error {
	port, err := getArduinoPort(a.SerialPort, a.BaudRate)
	if err != nil {
		return err
	}
	a.port = port

	if a.logDir != "" {
		a.rawLog, err = OpenRawLog(a.logDir)
		if err != nil {
			_ = port.Close()
			return err
		}
		log.Printf("logging raw lines to %s", a.rawLog.Path())
	}
	return nil
}

func (a *Arduino) Run(ctx context.Context) error {
	a.guard.start()
	defer func() {
		if err := a.guard.finish(a.rawLog); err != nil {
			log.Printf("couldn't close raw log: %s", err)
		}
	}()
	// Closing the port is the only way to unblock a pending read.
	stop := context.AfterFunc(ctx, func() { _ = a.guard.closeSource(a.port) })
	defer stop()

	err := scanLines(a.port, func(line string) error {
		if err := a.rawLog.Write(time.Now().UnixMilli(), line); err != nil {
			log.Printf("raw write: %v", err)
		}
		return a.sink.Feed(ctx, line)
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("read serial %s: %w", a.SerialPort, err)
	}
	return nil
}

func (a *Arduino) Close() error {
	return a.guard.close(a.port, a.rawLog)
}

func getArduinoPort(port string, baud int) (serial.Port, error) {
	// auto-select Arduino-ish port if requested
	if port == "auto" {
		name, err := autoSelectPort()
		if err != nil {
			return nil, fmt.Errorf("auto-select: %w", err)
		}
		port = name
	}
	mode := &serial.Mode{BaudRate: baud}
	serialPort, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("couldn't open serial %s: %w", port, err)
	}
	log.Printf("connected to %s @ %d", port, baud)

	return serialPort, nil
}

func autoSelectPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate ports: %w", err)
	}
	return pickPort(ports)
}

// pickPort returns the first USB port with a known Arduino or USB-serial VID.
func pickPort(ports []*enumerator.PortDetails) (string, error) {
	for _, p := range ports {
		if p.IsUSB && preferredVIDs[strings.ToUpper(p.VID)] {
			return p.Name, nil
		}
	}
	return "", ErrNoPort
}
