package plotter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serialplot/models"
)

func TestConfigurePushesInitialScrollState(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)

	assert.Equal(t, DefaultScrollMin, h.horizontal.min)
	assert.Equal(t, DefaultScrollMax, h.horizontal.max)
	assert.Equal(t, 250, h.horizontal.value)
	assert.Equal(t, 500, h.horizontal.page)

	assert.Equal(t, 0, h.vertical.value)
	assert.Equal(t, 1000, h.vertical.page)
	assert.Equal(t, []int{0}, h.vertical.positions)
}

func TestAxisChangeMovesScrollBars(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)

	h.engine.OnAxisRangeChanged(XAxis, models.Range{Lower: 1, Upper: 3})
	assert.Equal(t, 200, h.horizontal.value)
	assert.Equal(t, 200, h.horizontal.page)

	h.engine.OnAxisRangeChanged(YAxis, models.Range{Lower: 1, Upper: 3})
	assert.Equal(t, -200, h.vertical.value)
	assert.Equal(t, 200, h.vertical.page)
	assert.Equal(t, models.Range{Lower: 1, Upper: 3}, h.engine.Range(YAxis))
}

func TestAxisChangeWidensScrollRange(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)

	h.engine.OnAxisRangeChanged(XAxis, models.Range{Lower: 10, Upper: 14})

	assert.Equal(t, 1200, h.horizontal.value)
	assert.Equal(t, DefaultScrollMin, h.horizontal.min)
	assert.GreaterOrEqual(t, h.horizontal.max, 1400)
	assert.Equal(t, h.horizontal.max, h.engine.ScrollState(XAxis).Max)
}

func TestScrollMovesAxisCenterKeepsWidth(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)
	redraws := h.renderer.redraws

	h.engine.OnHorizontalScroll(300)
	assert.Equal(t, models.Range{Lower: 0.5, Upper: 5.5}, h.engine.Range(XAxis))
	assert.Equal(t, models.Range{Lower: 0.5, Upper: 5.5}, h.renderer.lastRange(XAxis))
	assert.Equal(t, redraws+1, h.renderer.redraws)

	h.engine.OnVerticalScroll(-300)
	assert.Equal(t, models.Range{Lower: -2, Upper: 8}, h.engine.Range(YAxis))
	assert.Equal(t, -300, h.engine.ScrollState(YAxis).Value)
}

func TestScrollWithinHysteresisIsIgnored(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)
	calls := len(h.renderer.ranges[XAxis])
	redraws := h.renderer.redraws

	h.engine.OnHorizontalScroll(250)
	assert.Len(t, h.renderer.ranges[XAxis], calls)
	assert.Equal(t, redraws, h.renderer.redraws)

	h.engine.OnHorizontalScroll(252)
	assert.Len(t, h.renderer.ranges[XAxis], calls+1)
}

func TestScrollAxisRoundTrip(t *testing.T) {
	ranges := []models.Range{
		{Lower: 0, Upper: 5},
		{Lower: -3.337, Upper: 1.2041},
		{Lower: 1, Upper: 1000},
		{Lower: 0.004, Upper: 0.006},
		{Lower: -1e4, Upper: -9e3},
	}

	for _, axis := range []Axis{XAxis, YAxis} {
		for _, r := range ranges {
			h, err := newHarness(options(1), true)
			require.NoError(t, err)

			h.engine.OnAxisRangeChanged(axis, r)
			state := h.engine.ScrollState(axis)
			if axis == XAxis {
				h.engine.OnHorizontalScroll(state.Value)
			} else {
				h.engine.OnVerticalScroll(state.Value)
			}

			got := h.engine.Range(axis)
			assert.LessOrEqual(t, math.Abs(got.Center()-r.Center()), Hysteresis, "%s %v", axis, r)
			assert.InDelta(t, r.Size(), got.Size(), 1e-9, "%s %v", axis, r)
		}
	}
}

func TestHugeRangesSaturateScrollBars(t *testing.T) {
	h, err := newHarness(options(1), true)
	require.NoError(t, err)

	h.engine.OnAxisRangeChanged(XAxis, models.Range{Lower: -1e17, Upper: 1e17})
	state := h.engine.ScrollState(XAxis)
	assert.Equal(t, math.MaxInt32, state.PageStep)
	assert.Equal(t, 0, state.Value)
	assert.GreaterOrEqual(t, state.Min, math.MinInt32)
	assert.LessOrEqual(t, state.Max, math.MaxInt32)
	assert.Equal(t, models.Range{Lower: -1e17, Upper: 1e17}, h.engine.Range(XAxis))

	o := options(1)
	o.AutoscaleY = true
	h, err = newHarness(o, true)
	require.NoError(t, err)

	feed(t, h.engine, "t:-1e17", "t:1e17", "t:3e17")
	state = h.engine.ScrollState(YAxis)
	assert.Equal(t, math.MaxInt32, state.PageStep)
	assert.Equal(t, math.MinInt32, state.Value)
	assert.GreaterOrEqual(t, state.Min, math.MinInt32)
	assert.LessOrEqual(t, state.Max, math.MaxInt32)
	assert.Equal(t, state.Value, h.vertical.value)
	// The echoed saturated position must not drag the axis back.
	assert.Equal(t, models.Range{Lower: -1e17, Upper: 3e17}, h.engine.Range(YAxis))
}

func TestEchoingScrollBarsDoNotLoop(t *testing.T) {
	h, err := newHarness(options(2), true)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.NoError(t, h.engine.OnLine("v:1,2"))
	}

	assert.Equal(t, models.Range{Lower: 1, Upper: 1000}, h.engine.Range(XAxis))
	// Without widening the bar would clamp to 500 and drag the axis back.
	assert.Equal(t, 50050, h.horizontal.value)
	assert.Equal(t, 99900, h.horizontal.page)

	h.engine.Zoom(YAxis, 0.5)
	h.engine.Pan(YAxis, 1)
	assert.Equal(t, models.Range{Lower: -1.5, Upper: 3.5}, h.engine.Range(YAxis))
	assert.Equal(t, -100, h.vertical.value)
}

func TestZoomAndPanIgnoreBadInput(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)
	before := h.engine.Range(XAxis)

	h.engine.Zoom(XAxis, 0)
	h.engine.Zoom(XAxis, math.Inf(1))
	h.engine.Pan(XAxis, math.NaN())
	assert.Equal(t, before, h.engine.Range(XAxis))

	h.engine.Zoom(XAxis, 2)
	assert.Equal(t, models.Range{Lower: -2.5, Upper: 7.5}, h.engine.Range(XAxis))
}

func TestParseAxis(t *testing.T) {
	for _, axis := range []Axis{XAxis, YAxis} {
		parsed, err := ParseAxis(axis.String())
		require.NoError(t, err)
		assert.Equal(t, axis, parsed)
	}
	_, err := ParseAxis("z")
	assert.ErrorIs(t, err, ErrBadAxis)
}
