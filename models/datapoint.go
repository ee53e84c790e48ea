package models

// DataPoint is one sample of a channel, x is the tick of the line it came from.
type DataPoint struct {
	x int
	y float64
}

func NewDataPoint(x int, y float64) DataPoint {
	return DataPoint{x, y}
}

func (p DataPoint) X() int {
	return p.x
}

func (p DataPoint) Y() float64 {
	return p.y
}
