package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags, serial, replay, socketCAN := BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, Arduino, flags.Driver)
	assert.Equal(t, Web, flags.UI)
	assert.Equal(t, DEFAULT_CHANNELS, flags.Channels)
	assert.Equal(t, "auto", serial.SerialPort)
	assert.Equal(t, DEFAULT_BAUD_RATE, serial.BaudRate)
	assert.Equal(t, 1.0, replay.Speed)
	assert.Equal(t, "can0", socketCAN.Interface)
	assert.NoError(t, flags.Validate())
}

func TestBindFlagsParse(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags, _, replay, _ := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--driver", "replay", "--ui=tui", "-n", "3", "--replay", "logs/RAWLOG.txt", "--follow",
	}))

	assert.Equal(t, Replay, flags.Driver)
	assert.Equal(t, TUI, flags.UI)
	assert.Equal(t, 3, flags.Channels)
	assert.Equal(t, "logs/RAWLOG.txt", replay.Path)
	assert.True(t, replay.Follow)
	assert.NoError(t, replay.Validate())
}

func TestBindFlagsRejectsUnknownDriver(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	err := fs.Parse([]string{"--driver", "bluetooth"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bluetooth")
}

func TestValidate(t *testing.T) {
	flags := &Flags{Channels: 0, YMin: -1, YMax: 1}
	assert.ErrorIs(t, flags.Validate(), ErrBadChannels)

	flags = &Flags{Channels: 1, YMin: 1, YMax: 1}
	assert.ErrorIs(t, flags.Validate(), ErrBadYRange)

	assert.Error(t, (&ReplayFlags{}).Validate())
	assert.Error(t, (&ReplayFlags{Path: "x", Loop: true, Follow: true}).Validate())
	assert.Error(t, (&ReplayFlags{Path: "x", Speed: -1}).Validate())
}

func TestChannelColoursCycle(t *testing.T) {
	colours := ChannelColours(len(Palette) + 2)
	assert.Equal(t, Palette[0], colours[len(Palette)])
	assert.Equal(t, YELLOW, PrimaryColour(colours[0]))
	assert.Equal(t, GREY, PrimaryColour(nil))
}
