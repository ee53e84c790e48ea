package models

// Frame is an immutable snapshot of everything a view needs to draw the plot.
type Frame struct {
	Seq        uint64         `json:"seq"`
	Timestamp  int            `json:"timestamp"`
	XRange     Range          `json:"x"`
	YRange     Range          `json:"y"`
	Horizontal ScrollState    `json:"hscroll"`
	Vertical   ScrollState    `json:"vscroll"`
	Channels   []ChannelFrame `json:"channels"`
	Ticks      int            `json:"ticks"`
	Accepted   int            `json:"accepted"`
	Rejected   int            `json:"rejected"`
}

// ChannelFrame holds the visible, possibly decimated, points of one channel as
// parallel x/y slices.
type ChannelFrame struct {
	Index  int       `json:"index"`
	Colour string    `json:"colour"`
	X      []float64 `json:"xs"`
	Y      []float64 `json:"ys"`
	Latest float64   `json:"latest"`
	Len    int       `json:"len"`
}

// WithoutChannels returns a shallow copy of f without the channels whose index
// is in hidden.
func (f *Frame) WithoutChannels(hidden map[int]bool) *Frame {
	if len(hidden) == 0 {
		return f
	}
	frameCopy := *f
	frameCopy.Channels = make([]ChannelFrame, 0, len(f.Channels))
	for _, c := range f.Channels {
		if hidden[c.Index] {
			continue
		}
		frameCopy.Channels = append(frameCopy.Channels, c)
	}
	return &frameCopy
}
