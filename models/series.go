package models

import "math"

type ColourStop struct {
	Offset string // e.g. "0%", "50%", "100%"
	Color  string // e.g. "#ff0000"
}

// Series is the sample buffer of one plotted channel. Points are appended in
// tick order and only ever leave from the front.
type Series struct {
	// index is the position of this channel in a sample tuple.
	index int
	// colours is treated as a gradient where low values get the first colour and high values the last one.
	colours []ColourStop
	// points holds every retained sample, ordered by x.
	points []DataPoint
	// minY and maxY are the running extent of points, only valid while extentDirty is false.
	minY        float64
	maxY        float64
	extentDirty bool
}

func NewSeries(index int, colours []ColourStop) *Series {
	return &Series{
		index,
		colours,
		make([]DataPoint, 0),
		math.Inf(1),
		math.Inf(-1),
		false,
	}
}

func (s *Series) Index() int {
	return s.index
}

func (s *Series) Colours() []ColourStop {
	return s.colours
}

func (s *Series) Len() int {
	return len(s.points)
}

func (s *Series) Points() []DataPoint {
	return s.points
}

// Values returns a copy of the y values in append order.
func (s *Series) Values() []float64 {
	values := make([]float64, len(s.points))
	for i, p := range s.points {
		values[i] = p.y
	}
	return values
}

func (s *Series) Add(x int, y float64) {
	s.points = append(s.points, DataPoint{x, y})
	if s.extentDirty {
		return
	}
	s.minY = math.Min(s.minY, y)
	s.maxY = math.Max(s.maxY, y)
}

func (s *Series) Latest() DataPoint {
	if len(s.points) == 0 {
		return DataPoint{0, 0}
	}
	return s.points[len(s.points)-1]
}

// DropBefore evicts every point with an x lower than x and returns how many
// were removed.
func (s *Series) DropBefore(x int) int {
	n := 0
	for n < len(s.points) && s.points[n].x < x {
		if s.points[n].y <= s.minY || s.points[n].y >= s.maxY {
			s.extentDirty = true
		}
		n++
	}
	if n == 0 {
		return 0
	}
	s.points = s.points[n:]
	if len(s.points) == 0 {
		// Release the backing array instead of keeping a long tail alive.
		s.points = make([]DataPoint, 0)
	}
	return n
}

// Extent returns the lowest and highest y held. ok is false for an empty
// series. The extent is kept while appending and only rebuilt after an
// eviction removed one of its bounds.
func (s *Series) Extent() (lo, hi float64, ok bool) {
	if len(s.points) == 0 {
		return 0, 0, false
	}
	if s.extentDirty {
		s.minY, s.maxY = math.Inf(1), math.Inf(-1)
		for _, p := range s.points {
			s.minY = math.Min(s.minY, p.y)
			s.maxY = math.Max(s.maxY, p.y)
		}
		s.extentDirty = false
	}
	return s.minY, s.maxY, true
}

// Window returns the points whose x lies within [lo, hi].
func (s *Series) Window(lo, hi float64) []DataPoint {
	return WindowOf(s.points, lo, hi)
}

// WindowOf slices an x-ordered point slice down to [lo, hi] with two binary
// searches.
func WindowOf(points []DataPoint, lo, hi float64) []DataPoint {
	if hi < lo {
		return points[:0]
	}
	start := searchX(points, lo)
	end := searchX(points, math.Floor(hi)+1)
	return points[start:end]
}

// searchX returns the first position whose x is >= x.
func searchX(points []DataPoint, x float64) int {
	lo, hi := 0, len(points)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if float64(points[mid].x) < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
