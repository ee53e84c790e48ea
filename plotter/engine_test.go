package plotter

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serialplot/models"
	"serialplot/parser"
)

func options(channels int) Options {
	o := DefaultOptions()
	o.Channels = channels
	return o
}

func feed(t *testing.T, e *Engine, lines ...string) {
	t.Helper()
	for _, line := range lines {
		_ = e.OnLine(line)
	}
}

func TestNewRejectsBadChannelCount(t *testing.T) {
	_, err := New(newFakeRenderer(), &fakeScrollBar{}, &fakeScrollBar{}, options(0))
	require.ErrorIs(t, err, ErrBadChannelCount)
}

func TestTwoLinesThreeChannels(t *testing.T) {
	h, err := newHarness(options(3), false)
	require.NoError(t, err)

	feed(t, h.engine, "a:1,2,3", "a:4,5,6")

	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, h.engine.Channels())
	assert.Equal(t, []int{1, 2}, h.engine.XIndex())
	assert.Equal(t, models.Range{Lower: 1, Upper: 2}, h.engine.Range(XAxis))
	assert.Equal(t, models.Range{Lower: 1, Upper: 2}, h.renderer.lastRange(XAxis))
	assert.Equal(t, []point{
		{0, 1, 1}, {1, 1, 2}, {2, 1, 3},
		{0, 2, 4}, {1, 2, 5}, {2, 2, 6},
	}, h.renderer.points)
}

func TestGarbageLineDoesNotMutate(t *testing.T) {
	h, err := newHarness(options(3), false)
	require.NoError(t, err)
	redraws := h.renderer.redraws

	err = h.engine.OnLine("garbage")
	require.ErrorIs(t, err, parser.ErrNoSeparator)
	assert.Empty(t, h.engine.XIndex())
	assert.Equal(t, redraws, h.renderer.redraws)
	assert.Equal(t, initialXRange, h.engine.Range(XAxis))

	require.NoError(t, h.engine.OnLine("a:7,8,9"))
	assert.Equal(t, []int{1}, h.engine.XIndex())
	assert.Equal(t, [][]float64{{7}, {8}, {9}}, h.engine.Channels())
}

func TestEmptyTupleIsIgnored(t *testing.T) {
	h, err := newHarness(options(2), false)
	require.NoError(t, err)

	h.engine.OnSampleTuple(parser.Tuple{})
	assert.Equal(t, 0, h.engine.Ticks())
}

func TestLongTupleIsTruncated(t *testing.T) {
	h, err := newHarness(options(2), false)
	require.NoError(t, err)

	require.NoError(t, h.engine.OnLine("a:1,2,3,4"))

	assert.Equal(t, [][]float64{{1}, {2}}, h.engine.Channels())
	for _, p := range h.renderer.points {
		assert.Less(t, p.series, 2)
	}
}

func TestShortTupleUpdatesOnlyLeadingChannels(t *testing.T) {
	h, err := newHarness(options(3), false)
	require.NoError(t, err)

	feed(t, h.engine, "a:1,2,3", "a:4", "a:5,6")

	assert.Equal(t, [][]float64{{1, 4, 5}, {2, 6}, {3}}, h.engine.Channels())
	assert.Equal(t, []int{1, 2, 3}, h.engine.XIndex())
	assert.Equal(t, 3, h.engine.Channel(1).Latest().X())
}

func TestAlignmentAndMonotonicIndex(t *testing.T) {
	h, err := newHarness(options(4), false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	accepted := 0
	for i := 0; i < 500; i++ {
		var line string
		switch rng.Intn(4) {
		case 0:
			line = "no separator"
		case 1:
			line = "x:"
		default:
			line = "x:"
			for j := 0; j < rng.Intn(7)+1; j++ {
				line += fmt.Sprintf("%.2f,", rng.NormFloat64())
			}
		}

		if h.engine.OnLine(line) == nil {
			accepted++
		}

		ticks := h.engine.XIndex()
		require.Len(t, ticks, accepted)
		for k, c := range h.engine.Channels() {
			require.LessOrEqual(t, len(c), len(ticks), "channel %d", k)
		}
	}

	ticks := h.engine.XIndex()
	for i, tick := range ticks {
		require.Equal(t, i+1, tick)
	}
}

func TestConfigureResets(t *testing.T) {
	h, err := newHarness(options(3), false)
	require.NoError(t, err)
	feed(t, h.engine, "a:1,2,3", "a:4,5,6")

	require.NoError(t, h.engine.Configure(2))
	require.NoError(t, h.engine.Configure(2))

	assert.Equal(t, 2, h.engine.NumChannels())
	assert.Equal(t, 2, h.renderer.seriesCount)
	assert.Empty(t, h.engine.XIndex())
	assert.Equal(t, [][]float64{{}, {}}, h.engine.Channels())
	assert.Equal(t, initialXRange, h.engine.Range(XAxis))

	require.NoError(t, h.engine.OnLine("a:9"))
	assert.Equal(t, []int{1}, h.engine.XIndex())

	assert.ErrorIs(t, h.engine.Configure(-1), ErrBadChannelCount)
	assert.Equal(t, 2, h.engine.NumChannels())
}

func TestClearKeepsChannelCount(t *testing.T) {
	h, err := newHarness(options(5), false)
	require.NoError(t, err)
	feed(t, h.engine, "a:1")

	h.engine.Clear()
	assert.Equal(t, 5, h.engine.NumChannels())
	assert.Equal(t, 0, h.engine.Ticks())
}

func TestCapacityEvictsOldestTicks(t *testing.T) {
	o := options(2)
	o.Capacity = 3
	h, err := newHarness(o, false)
	require.NoError(t, err)

	feed(t, h.engine, "a:1,10", "a:2", "a:3,30", "a:4,40", "a:5,50")

	assert.Equal(t, []int{3, 4, 5}, h.engine.XIndex())
	assert.Equal(t, [][]float64{{3, 4, 5}, {30, 40, 50}}, h.engine.Channels())
	assert.Equal(t, 3.0, h.renderer.trimmedTo)
	assert.Equal(t, models.Range{Lower: 3, Upper: 5}, h.engine.Range(XAxis))
	assert.Equal(t, 5, h.engine.Ticks())
}

func TestAutoscaleY(t *testing.T) {
	o := options(2)
	o.AutoscaleY = true
	o.Capacity = 2
	h, err := newHarness(o, false)
	require.NoError(t, err)

	feed(t, h.engine, "a:-4,100")
	assert.Equal(t, models.Range{Lower: -4, Upper: 100}, h.engine.Range(YAxis))

	feed(t, h.engine, "a:1", "a:2")
	assert.Equal(t, models.Range{Lower: 1, Upper: 2}, h.engine.Range(YAxis))

	feed(t, h.engine, "a:2")
	assert.Equal(t, models.Range{Lower: 1.5, Upper: 2.5}, h.engine.Range(YAxis))
}

func TestYRangeStaysPutWithoutAutoscale(t *testing.T) {
	h, err := newHarness(options(1), false)
	require.NoError(t, err)

	feed(t, h.engine, "a:1000")
	assert.Equal(t, models.Range{Lower: -5, Upper: 5}, h.engine.Range(YAxis))

	h.engine.Rescale()
	assert.Equal(t, models.Range{Lower: 999.5, Upper: 1000.5}, h.engine.Range(YAxis))
}
