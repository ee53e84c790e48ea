// Package plotter holds the sample buffers of a live multi-channel plot and
// keeps the chart's axis ranges and the two scroll bars in sync.
//
// An Engine is not safe for concurrent use. It is meant to be driven from a
// single event loop that handles one line, scroll or pan/zoom event at a time.
package plotter

import (
	"errors"
	"fmt"

	"serialplot/models"
)

var ErrBadAxis = errors.New("unknown axis")

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
)

func (a Axis) String() string {
	if a == YAxis {
		return "y"
	}
	return "x"
}

// ParseAxis accepts the names printed by Axis.String.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x":
		return XAxis, nil
	case "y":
		return YAxis, nil
	}
	return XAxis, fmt.Errorf("%w: %q", ErrBadAxis, name)
}

const (
	// ScrollScale converts axis coordinates to integer scroll positions.
	ScrollScale = 100.0
	// Hysteresis is the smallest center difference a scroll event has to make
	// before it moves the axis. It breaks the axis -> scroll bar -> axis loop.
	Hysteresis = 0.01

	DefaultScrollMin = -500
	DefaultScrollMax = 500
)

// Renderer draws the series. The engine only refers to series by index, the
// renderer owns whatever graph objects back them.
type Renderer interface {
	CreateSeries(count int)
	AppendPoint(series int, x, y float64)
	// TrimBefore drops every point with an x lower than x from all series.
	TrimBefore(x float64)
	SetAxisRange(axis Axis, r models.Range)
	RequestRedraw()
}

// ScrollBar is the outbound half of an integer scroll bar. Value changes made
// by the user come back through Engine.OnHorizontalScroll and
// Engine.OnVerticalScroll.
type ScrollBar interface {
	SetRange(min, max int)
	SetPosition(value int)
	SetPageStep(value int)
}

type Options struct {
	// Channels is the number of plotted series, tuple positions past it are dropped.
	Channels int
	// Capacity bounds the number of retained ticks, 0 keeps everything.
	Capacity int
	// YRange is the vertical range shown after Configure.
	YRange models.Range
	// AutoscaleY fits the vertical range to the data after every tuple.
	AutoscaleY bool
	// Colours is indexed by channel, missing entries get no colour.
	Colours [][]models.ColourStop
}

func DefaultOptions() Options {
	return Options{
		Channels: 8,
		YRange:   models.Range{Lower: -5, Upper: 5},
	}
}
