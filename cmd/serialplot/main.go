package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"serialplot/config"
	"serialplot/drivers"
	"serialplot/events"
	"serialplot/logging"
	"serialplot/models"
	"serialplot/plotter"
	"serialplot/session"
	"serialplot/tui"
	"serialplot/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serialplot [flags]",
		Short: "Live plot of numeric lines read from a serial port",
		Long: `serialplot reads lines of the form "<tag>:<v1>,<v2>,..." from a device and
plots every value as its own channel, live, in the browser or the terminal.

Examples:
  serialplot                                        # auto-detect an Arduino, plot on :8080
  serialplot --serial-port /dev/ttyUSB0 --baud 9600
  serialplot --driver replay --replay logs/RAWLOG.txt --replay-speed 4
  some-command | serialplot --driver stdin --ui tui
  serialplot --driver socket-can --can-interface can0 --autoscale-y`,
		SilenceUsage: true,
	}

	flags, serialFlags, replayFlags, socketCANFlags := config.BindFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := flags.Validate(); err != nil {
			return err
		}
		if flags.Driver == config.Replay {
			if err := replayFlags.Validate(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if flags.UI == config.TUI {
			cleanup, err := logging.SetupLogging(flags.LogFile)
			if err != nil {
				return fmt.Errorf("couldn't set up logging: %w", err)
			}
			defer cleanup()
		}

		return run(ctx, flags, serialFlags, replayFlags, socketCANFlags)
	}
	return cmd
}

func plotOptions(flags *config.Flags) plotter.Options {
	return plotter.Options{
		Channels:   flags.Channels,
		Capacity:   flags.Capacity,
		YRange:     models.Range{Lower: flags.YMin, Upper: flags.YMax},
		AutoscaleY: flags.AutoscaleY,
		Colours:    config.ChannelColours(flags.Channels),
	}
}

func newDriver(flags *config.Flags, serialFlags *config.SerialFlags, replayFlags *config.ReplayFlags,
	socketCANFlags *config.SocketCANFlags, sink drivers.Sink) (drivers.Driver, error) {
	logDir := flags.LogDir
	if flags.NoRawLog {
		logDir = ""
	}

	switch flags.Driver {
	case config.Arduino:
		return drivers.NewArduino(serialFlags, sink, logDir), nil
	case config.SocketCAN:
		return drivers.NewSocketCAN(socketCANFlags, sink, logDir), nil
	case config.Replay:
		return drivers.NewReplayer(replayFlags, sink), nil
	case config.Stdin:
		return drivers.NewReader(os.Stdin, sink), nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrBadDriver, flags.Driver)
}

func run(ctx context.Context, flags *config.Flags, serialFlags *config.SerialFlags,
	replayFlags *config.ReplayFlags, socketCANFlags *config.SocketCANFlags) error {
	options := plotOptions(flags)
	hub := events.NewHub()
	defer hub.Close()

	plotSession, err := session.New(options, hub)
	if err != nil {
		return fmt.Errorf("couldn't create plot: %w", err)
	}

	driver, err := newDriver(flags, serialFlags, replayFlags, socketCANFlags, plotSession)
	if err != nil {
		return err
	}
	if err := driver.Init(); err != nil {
		return fmt.Errorf("couldn't init %s driver: %w", flags.Driver, err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Printf("close %s driver: %v", flags.Driver, err)
		}
	}()

	var dashboard *web.Dashboard
	if flags.UI == config.Web {
		dashboard, err = web.NewDashboard(plotSession, options.Colours)
		if err != nil {
			return fmt.Errorf("couldn't create dashboard: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return ignoreCancel(plotSession.Run(ctx))
	})

	// A source running dry leaves the plot up, only a failure stops the UI.
	group.Go(func() error {
		err := ignoreCancel(driver.Run(ctx))
		if err != nil {
			log.Printf("%s driver stopped: %v", flags.Driver, err)
			return err
		}
		log.Printf("%s driver finished", flags.Driver)
		return nil
	})

	group.Go(func() error {
		defer cancel()
		switch flags.UI {
		case config.TUI:
			return tui.Run(ctx, plotSession, hub)
		default:
			return web.NewServer(dashboard, hub).Start(ctx, flags.Addr)
		}
	})

	return group.Wait()
}

// ignoreCancel drops the errors every goroutine returns on a normal shutdown.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, session.ErrClosed) {
		return nil
	}
	return err
}
