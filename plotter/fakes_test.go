package plotter

import (
	"serialplot/models"
)

type point struct {
	series int
	x, y   float64
}

type fakeRenderer struct {
	seriesCount int
	points      []point
	ranges      map[Axis][]models.Range
	trimmedTo   float64
	redraws     int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{ranges: map[Axis][]models.Range{}}
}

func (f *fakeRenderer) CreateSeries(count int) {
	f.seriesCount = count
	f.points = nil
}

func (f *fakeRenderer) AppendPoint(series int, x, y float64) {
	f.points = append(f.points, point{series, x, y})
}

func (f *fakeRenderer) TrimBefore(x float64) {
	f.trimmedTo = x
}

func (f *fakeRenderer) SetAxisRange(axis Axis, r models.Range) {
	f.ranges[axis] = append(f.ranges[axis], r)
}

func (f *fakeRenderer) RequestRedraw() {
	f.redraws++
}

func (f *fakeRenderer) lastRange(axis Axis) models.Range {
	rs := f.ranges[axis]
	return rs[len(rs)-1]
}

// fakeScrollBar behaves like a widget scroll bar: it clamps to its range and,
// when echo is set, reports value changes straight back like a
// valueChanged notification.
type fakeScrollBar struct {
	min, max  int
	value     int
	page      int
	positions []int
	echo      func(int)
	depth     int
}

func (f *fakeScrollBar) SetRange(min, max int) {
	f.min, f.max = min, max
}

func (f *fakeScrollBar) SetPosition(value int) {
	value = max(f.min, min(f.max, value))
	changed := value != f.value
	f.value = value
	f.positions = append(f.positions, value)
	if changed && f.echo != nil {
		f.depth++
		if f.depth > 8 {
			panic("scroll feedback loop")
		}
		f.echo(value)
		f.depth--
	}
}

func (f *fakeScrollBar) SetPageStep(value int) {
	f.page = value
}

type harness struct {
	engine     *Engine
	renderer   *fakeRenderer
	horizontal *fakeScrollBar
	vertical   *fakeScrollBar
}

func newHarness(options Options, echo bool) (*harness, error) {
	h := &harness{
		renderer:   newFakeRenderer(),
		horizontal: &fakeScrollBar{},
		vertical:   &fakeScrollBar{},
	}
	if echo {
		h.horizontal.echo = func(v int) { h.engine.OnHorizontalScroll(v) }
		h.vertical.echo = func(v int) { h.engine.OnVerticalScroll(v) }
	}
	// The echo closures need h.engine, so wire them before configuring
	// through a zero engine and configure afterwards.
	h.engine = &Engine{
		options:    options,
		renderer:   h.renderer,
		horizontal: h.horizontal,
		vertical:   h.vertical,
		xIndex:     models.NewXIndex(),
	}
	if err := h.engine.Configure(options.Channels); err != nil {
		return nil, err
	}
	return h, nil
}
