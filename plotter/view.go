package plotter

import (
	"math"

	"serialplot/models"
)

// OnHorizontalScroll moves the x axis so its center sits at position/100,
// keeping the visible width.
func (e *Engine) OnHorizontalScroll(position int) {
	e.onScroll(XAxis, position)
}

// OnVerticalScroll is OnHorizontalScroll for the y axis. The scroll bar grows
// downwards while the axis grows upwards, so the position is negated.
func (e *Engine) OnVerticalScroll(position int) {
	e.onScroll(YAxis, position)
}

func (e *Engine) onScroll(axis Axis, position int) {
	state := e.scrollState(axis)
	// The bar is reporting the position pushed by syncScrollBar. When that
	// position saturated it no longer maps back to the axis center.
	if position == state.Value {
		return
	}
	state.Value = position

	target := scrollToCenter(axis, position)
	current := e.Range(axis)
	// Dragging the plot already moved the axis, don't move it again.
	if math.Abs(current.Center()-target) <= Hysteresis {
		return
	}
	e.setRange(axis, models.NewCenteredRange(target, current.Size()))
	e.renderer.RequestRedraw()
}

// OnAxisRangeChanged is called by the renderer after the user panned or
// zoomed. It records the range and moves the matching scroll bar.
func (e *Engine) OnAxisRangeChanged(axis Axis, r models.Range) {
	r = r.Normalized()
	if axis == YAxis {
		e.yRange = r
	} else {
		e.xRange = r
	}
	e.syncScrollBar(axis)
	e.renderer.RequestRedraw()
}

// Zoom scales the visible size of axis by factor around its center. A factor
// below 1 zooms in.
func (e *Engine) Zoom(axis Axis, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	current := e.Range(axis)
	e.setRange(axis, models.NewCenteredRange(current.Center(), current.Size()*factor))
	e.renderer.RequestRedraw()
}

// Pan shifts axis by delta axis units.
func (e *Engine) Pan(axis Axis, delta float64) {
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	current := e.Range(axis)
	e.setRange(axis, models.Range{Lower: current.Lower + delta, Upper: current.Upper + delta})
	e.renderer.RequestRedraw()
}

func (e *Engine) Range(axis Axis) models.Range {
	if axis == YAxis {
		return e.yRange
	}
	return e.xRange
}

func (e *Engine) ScrollState(axis Axis) models.ScrollState {
	return *e.scrollState(axis)
}

func (e *Engine) setRange(axis Axis, r models.Range) {
	r = r.Normalized()
	if axis == YAxis {
		e.yRange = r
	} else {
		e.xRange = r
	}
	e.renderer.SetAxisRange(axis, r)
	e.syncScrollBar(axis)
}

// syncScrollBar derives position and page step from the axis range. The
// scroll range is widened first so the bar never clamps the new position.
// State is updated before each call out because a scroll bar may report the
// new value straight back.
func (e *Engine) syncScrollBar(axis Axis) {
	state := e.scrollState(axis)
	bar := e.scrollBar(axis)
	r := e.Range(axis)

	position := centerToScroll(axis, r.Center())
	page := max(0, toScroll(r.Size()))

	lo := max(math.MinInt32, position-page/2)
	hi := min(math.MaxInt32, position+page/2)
	if lo < state.Min || hi > state.Max {
		state.Min = min(state.Min, lo)
		state.Max = max(state.Max, hi)
		bar.SetRange(state.Min, state.Max)
	}
	if position != state.Value {
		state.Value = position
		bar.SetPosition(position)
	}
	if page != state.PageStep {
		state.PageStep = page
		bar.SetPageStep(page)
	}
}

func (e *Engine) scrollState(axis Axis) *models.ScrollState {
	if axis == YAxis {
		return &e.vScroll
	}
	return &e.hScroll
}

func (e *Engine) scrollBar(axis Axis) ScrollBar {
	if axis == YAxis {
		return e.vertical
	}
	return e.horizontal
}

func scrollToCenter(axis Axis, position int) float64 {
	center := float64(position) / ScrollScale
	if axis == YAxis {
		return -center
	}
	return center
}

func centerToScroll(axis Axis, center float64) int {
	if axis == YAxis {
		center = -center
	}
	return toScroll(center)
}

// toScroll converts axis units to scroll units, saturating at the int32
// range widget scroll bars use.
func toScroll(v float64) int {
	scaled := math.Round(v * ScrollScale)
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, scaled)))
}
