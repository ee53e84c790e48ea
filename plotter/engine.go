package plotter

import (
	"errors"
	"fmt"
	"math"

	"serialplot/models"
	"serialplot/parser"
)

var ErrBadChannelCount = errors.New("channel count must be at least 1")

// initialXRange is shown until the first tuple arrives.
var initialXRange = models.Range{Lower: 0, Upper: 5}

type Engine struct {
	options    Options
	renderer   Renderer
	horizontal ScrollBar
	vertical   ScrollBar

	channels []*models.Series
	xIndex   *models.XIndex

	xRange models.Range
	yRange models.Range

	hScroll models.ScrollState
	vScroll models.ScrollState
}

// New creates an engine and configures it with options.Channels series.
func New(renderer Renderer, horizontal, vertical ScrollBar, options Options) (*Engine, error) {
	e := &Engine{
		options:    options,
		renderer:   renderer,
		horizontal: horizontal,
		vertical:   vertical,
		xIndex:     models.NewXIndex(),
	}
	if err := e.Configure(options.Channels); err != nil {
		return nil, err
	}
	return e, nil
}

// Configure drops all samples, resets the tick counter and recreates
// numChannels empty series. It may be called any number of times.
func (e *Engine) Configure(numChannels int) error {
	if numChannels < 1 {
		return fmt.Errorf("configure %d channels: %w", numChannels, ErrBadChannelCount)
	}
	e.options.Channels = numChannels

	e.channels = make([]*models.Series, numChannels)
	for i := range e.channels {
		var colours []models.ColourStop
		if i < len(e.options.Colours) {
			colours = e.options.Colours[i]
		}
		e.channels[i] = models.NewSeries(i, colours)
	}
	e.xIndex.Reset()
	e.renderer.CreateSeries(numChannels)

	// Unset value and page so the first sync always reaches the scroll bars.
	e.hScroll = models.ScrollState{Min: DefaultScrollMin, Max: DefaultScrollMax, Value: math.MinInt32, PageStep: -1}
	e.vScroll = models.ScrollState{Min: DefaultScrollMin, Max: DefaultScrollMax, Value: math.MinInt32, PageStep: -1}
	e.horizontal.SetRange(DefaultScrollMin, DefaultScrollMax)
	e.vertical.SetRange(DefaultScrollMin, DefaultScrollMax)

	yRange := e.options.YRange.Normalized()
	if yRange.Size() == 0 {
		yRange = DefaultOptions().YRange
	}
	e.setRange(XAxis, initialXRange)
	e.setRange(YAxis, yRange)
	e.renderer.RequestRedraw()
	return nil
}

// Clear empties the buffers but keeps the channel count.
func (e *Engine) Clear() {
	_ = e.Configure(e.options.Channels)
}

// OnLine parses line and feeds the tuple to the engine. A rejected line leaves
// the engine untouched and its parse error is returned.
func (e *Engine) OnLine(line string) error {
	tuple, err := parser.Parse(line)
	if err != nil {
		return err
	}
	e.OnSampleTuple(tuple)
	return nil
}

// OnSampleTuple records one accepted line: a new tick on the x index and one
// point per channel the tuple has a value for.
func (e *Engine) OnSampleTuple(tuple parser.Tuple) {
	if len(tuple) == 0 {
		return
	}

	// The tick goes in first so the index is never shorter than a channel.
	x := e.xIndex.Next()
	for i, y := range tuple {
		if i >= len(e.channels) {
			break
		}
		e.channels[i].Add(x, y)
		e.renderer.AppendPoint(i, float64(x), y)
	}

	if e.options.Capacity > 0 && e.xIndex.Len() > e.options.Capacity {
		e.evict(e.xIndex.Len() - e.options.Capacity)
	}

	e.setRange(XAxis, e.xExtent())
	if e.options.AutoscaleY {
		if yRange, ok := e.yExtent(); ok {
			e.setRange(YAxis, yRange)
		}
	}
	e.renderer.RequestRedraw()
}

func (e *Engine) evict(n int) {
	e.xIndex.DropFirst(n)
	first := e.xIndex.First()
	for _, c := range e.channels {
		c.DropBefore(first)
	}
	e.renderer.TrimBefore(float64(first))
}

// xExtent is [min, max] of the x index. Ticks are strictly increasing so the
// bounds are its first and last element.
func (e *Engine) xExtent() models.Range {
	return models.Range{Lower: float64(e.xIndex.First()), Upper: float64(e.xIndex.Last())}
}

func (e *Engine) yExtent() (models.Range, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range e.channels {
		cLo, cHi, ok := c.Extent()
		if !ok {
			continue
		}
		lo = math.Min(lo, cLo)
		hi = math.Max(hi, cHi)
	}
	if math.IsInf(lo, 1) {
		return models.Range{}, false
	}
	if lo == hi {
		return models.NewCenteredRange(lo, 1), true
	}
	return models.Range{Lower: lo, Upper: hi}, true
}

// Rescale fits x to the retained ticks and y to the data.
func (e *Engine) Rescale() {
	if e.xIndex.Len() > 0 {
		e.setRange(XAxis, e.xExtent())
	}
	if yRange, ok := e.yExtent(); ok {
		e.setRange(YAxis, yRange)
	}
	e.renderer.RequestRedraw()
}

func (e *Engine) NumChannels() int {
	return len(e.channels)
}

func (e *Engine) Channel(i int) *models.Series {
	if i < 0 || i >= len(e.channels) {
		return nil
	}
	return e.channels[i]
}

// Channels returns a copy of every channel's values.
func (e *Engine) Channels() [][]float64 {
	values := make([][]float64, len(e.channels))
	for i, c := range e.channels {
		values[i] = c.Values()
	}
	return values
}

func (e *Engine) XIndex() []int {
	return e.xIndex.Ticks()
}

// Ticks is the number of lines accepted since the last Configure.
func (e *Engine) Ticks() int {
	return e.xIndex.Count()
}

func (e *Engine) Options() Options {
	return e.options
}
