package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

type DriverType string

const (
	Replay    DriverType = "replay"
	Arduino   DriverType = "arduino"
	Stdin     DriverType = "stdin"
	SocketCAN DriverType = "socket-can"
)

type UIType string

const (
	Web UIType = "web"
	TUI UIType = "tui"
)

type Flags struct {
	Driver     DriverType
	UI         UIType
	Addr       string
	Channels   int
	Capacity   int
	YMin       float64
	YMax       float64
	AutoscaleY bool
	LogDir     string
	NoRawLog   bool
	LogFile    string
}

type SerialFlags struct {
	SerialPort string
	BaudRate   int
}

type ReplayFlags struct {
	Path      string
	Speed     float64
	Loop      bool
	SkipLines int
	Follow    bool
}

type SocketCANFlags struct {
	Interface string
}

const (
	DEFAULT_BAUD_RATE = 115200
	DEFAULT_CHANNELS  = 8
	DEFAULT_LOG_DIR   = "logs"
)

var (
	ErrBadDriver   = errors.New("unsupported driver")
	ErrBadUI       = errors.New("unsupported ui")
	ErrBadChannels = errors.New("channels must be at least 1")
	ErrBadYRange   = errors.New("y-min must be lower than y-max")
)

// BindFlags registers every option on fs and returns the structs they are
// parsed into.
func BindFlags(fs *pflag.FlagSet) (*Flags, *SerialFlags, *ReplayFlags, *SocketCANFlags) {
	flags := &Flags{Driver: Arduino, UI: Web}
	fs.Var(newEnumValue((*string)(&flags.Driver), Arduino, Replay, Stdin, SocketCAN), "driver",
		"line source: arduino, replay, stdin or socket-can")
	fs.Var(newEnumValue((*string)(&flags.UI), Web, TUI), "ui", "front end: web or tui")
	fs.StringVar(&flags.Addr, "addr", ":8080", "http listen address")
	fs.IntVarP(&flags.Channels, "channels", "n", DEFAULT_CHANNELS, "maximum number of plotted channels")
	fs.IntVar(&flags.Capacity, "capacity", 0, "samples kept per channel (0 = unbounded)")
	fs.Float64Var(&flags.YMin, "y-min", -5, "initial lower bound of the y axis")
	fs.Float64Var(&flags.YMax, "y-max", 5, "initial upper bound of the y axis")
	fs.BoolVar(&flags.AutoscaleY, "autoscale-y", false, "fit the y axis to the data on every sample")
	fs.StringVar(&flags.LogDir, "log-dir", DEFAULT_LOG_DIR, "directory for raw line logs")
	fs.BoolVar(&flags.NoRawLog, "no-rawlog", false, "don't write received lines to a raw log")
	fs.StringVar(&flags.LogFile, "log-file", "", "write diagnostics here in tui mode (default: discard)")

	serial := &SerialFlags{}
	fs.StringVar(&serial.SerialPort, "serial-port", "auto", "serial device path or 'auto'")
	fs.IntVar(&serial.BaudRate, "baud", DEFAULT_BAUD_RATE, "baud rate")

	replay := &ReplayFlags{}
	fs.StringVar(&replay.Path, "replay", "", "path to a raw log to replay")
	fs.Float64Var(&replay.Speed, "replay-speed", 1.0, "replay speed multiplier (0 = as fast as possible)")
	fs.BoolVar(&replay.Loop, "replay-loop", false, "loop replay at EOF")
	fs.IntVar(&replay.SkipLines, "replay-skip-lines", 0, "skips X amount of lines from start")
	fs.BoolVar(&replay.Follow, "follow", false, "keep reading lines appended to the replay file")

	socketCAN := &SocketCANFlags{}
	fs.StringVar(&socketCAN.Interface, "can-interface", "can0", "socket CAN interface")

	return flags, serial, replay, socketCAN
}

func (f *Flags) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("%d: %w", f.Channels, ErrBadChannels)
	}
	if f.YMin >= f.YMax {
		return fmt.Errorf("[%g, %g]: %w", f.YMin, f.YMax, ErrBadYRange)
	}
	return nil
}

func (r *ReplayFlags) Validate() error {
	if r.Path == "" {
		return errors.New("replay needs --replay <path>")
	}
	if r.Loop && r.Follow {
		return errors.New("--replay-loop and --follow are mutually exclusive")
	}
	if r.Speed < 0 {
		return fmt.Errorf("replay speed %g is negative", r.Speed)
	}
	return nil
}

// enumValue is a pflag.Value restricted to a fixed set of strings.
type enumValue[T ~string] struct {
	target  *string
	allowed []T
}

func newEnumValue[T ~string](target *string, allowed ...T) *enumValue[T] {
	return &enumValue[T]{target, allowed}
}

func (e *enumValue[T]) String() string {
	return *e.target
}

func (e *enumValue[T]) Set(s string) error {
	for _, a := range e.allowed {
		if string(a) == s {
			*e.target = s
			return nil
		}
	}
	return fmt.Errorf("%q must be one of %v", s, e.allowed)
}

func (e *enumValue[T]) Type() string {
	return "string"
}
