package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serialplot/config"
	"serialplot/drivers"
	"serialplot/models"
)

func TestRootCmdRejectsBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"--channels", "0"},
		{"--y-min", "3", "--y-max", "3"},
		{"--driver", "replay"},
		{"--driver", "bluetooth"},
		{"--ui", "gtk"},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&nopWriter{})
		cmd.SetErr(&nopWriter{})
		assert.Error(t, cmd.Execute(), "args %v", args)
	}
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestPlotOptions(t *testing.T) {
	flags := &config.Flags{Channels: 3, Capacity: 100, YMin: -1, YMax: 2, AutoscaleY: true}
	options := plotOptions(flags)

	assert.Equal(t, 3, options.Channels)
	assert.Equal(t, 100, options.Capacity)
	assert.Equal(t, models.Range{Lower: -1, Upper: 2}, options.YRange)
	assert.True(t, options.AutoscaleY)
	assert.Len(t, options.Colours, 3)
}

func TestNewDriver(t *testing.T) {
	serialFlags := &config.SerialFlags{}
	replayFlags := &config.ReplayFlags{}
	socketCANFlags := &config.SocketCANFlags{}

	for driverType, want := range map[config.DriverType]drivers.Driver{
		config.Arduino:   &drivers.Arduino{},
		config.Replay:    &drivers.Replayer{},
		config.Stdin:     &drivers.Reader{},
		config.SocketCAN: &drivers.SocketCAN{},
	} {
		driver, err := newDriver(&config.Flags{Driver: driverType}, serialFlags, replayFlags, socketCANFlags, nil)
		require.NoError(t, err)
		assert.IsType(t, want, driver)
	}

	_, err := newDriver(&config.Flags{Driver: "bluetooth"}, serialFlags, replayFlags, socketCANFlags, nil)
	assert.ErrorIs(t, err, config.ErrBadDriver)
}

func TestRunReplayUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RAWLOG.txt")
	require.NoError(t, os.WriteFile(path, []byte("a:1,2\na:3,4\nnoise\n"), 0o644))

	flags := &config.Flags{
		Driver:   config.Replay,
		UI:       config.Web,
		Addr:     "127.0.0.1:0",
		Channels: 2,
		YMin:     -5,
		YMax:     5,
		NoRawLog: true,
	}
	replayFlags := &config.ReplayFlags{Path: path}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(200*time.Millisecond, cancel)
	assert.NoError(t, run(ctx, flags, &config.SerialFlags{}, replayFlags, &config.SocketCANFlags{}))
}
