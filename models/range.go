package models

// Range is a closed interval on one chart axis.
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewCenteredRange builds a range of the given size around center.
func NewCenteredRange(center, size float64) Range {
	return Range{center - size/2, center + size/2}
}

func (r Range) Center() float64 {
	return (r.Lower + r.Upper) / 2
}

func (r Range) Size() float64 {
	return r.Upper - r.Lower
}

// Normalized swaps reversed bounds.
func (r Range) Normalized() Range {
	if r.Lower > r.Upper {
		return Range{r.Upper, r.Lower}
	}
	return r
}

func (r Range) Contains(v float64) bool {
	return v >= r.Lower && v <= r.Upper
}

// ScrollState mirrors an integer scroll bar: its range, slider position and
// slider size.
type ScrollState struct {
	Min      int `json:"min"`
	Max      int `json:"max"`
	Value    int `json:"value"`
	PageStep int `json:"page"`
}
