package session

import (
	"serialplot/models"
	"serialplot/plotter"
)

// canvas is the renderer side of the engine. It keeps its own copy of every
// series, like a chart widget keeps the data of its graphs.
type canvas struct {
	series   []*models.Series
	ranges   [2]models.Range
	onRedraw func()
}

func newCanvas(onRedraw func()) *canvas {
	return &canvas{onRedraw: onRedraw}
}

func (c *canvas) CreateSeries(count int) {
	c.series = make([]*models.Series, count)
	for i := range c.series {
		c.series[i] = models.NewSeries(i, nil)
	}
}

func (c *canvas) AppendPoint(series int, x, y float64) {
	if series < 0 || series >= len(c.series) {
		return
	}
	c.series[series].Add(int(x), y)
}

func (c *canvas) TrimBefore(x float64) {
	for _, s := range c.series {
		s.DropBefore(int(x))
	}
}

func (c *canvas) SetAxisRange(axis plotter.Axis, r models.Range) {
	c.ranges[axis] = r
}

func (c *canvas) RequestRedraw() {
	c.onRedraw()
}

// scrollProxy stands in for a scroll bar living in a view. Views read its
// state from frames and send user changes back as scroll commands.
type scrollProxy struct {
	state    models.ScrollState
	onChange func()
}

func newScrollProxy(onChange func()) *scrollProxy {
	return &scrollProxy{onChange: onChange}
}

func (p *scrollProxy) SetRange(min, max int) {
	p.state.Min, p.state.Max = min, max
	p.onChange()
}

func (p *scrollProxy) SetPosition(value int) {
	p.state.Value = value
	p.onChange()
}

func (p *scrollProxy) SetPageStep(value int) {
	p.state.PageStep = value
	p.onChange()
}
