package session

import (
	"serialplot/config"
	"serialplot/models"
	"serialplot/plotter"
)

func (s *Session) buildFrame() *models.Frame {
	xRange := s.canvas.ranges[plotter.XAxis]
	colours := s.engine.Options().Colours

	frame := &models.Frame{
		Seq:        s.seq,
		Timestamp:  int(s.now().UnixMilli()),
		XRange:     xRange,
		YRange:     s.canvas.ranges[plotter.YAxis],
		Horizontal: s.horizontal.state,
		Vertical:   s.vertical.state,
		Channels:   make([]models.ChannelFrame, 0, len(s.canvas.series)),
		Ticks:      s.engine.Ticks(),
		Accepted:   s.accepted,
		Rejected:   s.rejected,
	}

	for i, series := range s.canvas.series {
		var stops []models.ColourStop
		if i < len(colours) {
			stops = colours[i]
		}
		xs, ys := decimate(withNeighbours(series.Points(), xRange), MAX_FRAME_POINTS)
		frame.Channels = append(frame.Channels, models.ChannelFrame{
			Index:  i,
			Colour: config.PrimaryColour(stops),
			X:      xs,
			Y:      ys,
			Latest: series.Latest().Y(),
			Len:    series.Len(),
		})
	}
	return frame
}

// withNeighbours returns the points inside r plus the nearest point on either
// side, so lines run to the edge of the plot.
func withNeighbours(points []models.DataPoint, r models.Range) []models.DataPoint {
	window := models.WindowOf(points, r.Lower, r.Upper)
	if len(points) == 0 {
		return window
	}
	start, end := 0, 0
	if len(window) > 0 {
		start = offsetOf(points, window[0])
		end = start + len(window)
	} else {
		// Nothing visible, find the gap the range falls into.
		end = len(models.WindowOf(points, float64(points[0].X()), r.Lower))
		start = end
	}
	if start > 0 {
		start--
	}
	if end < len(points) {
		end++
	}
	return points[start:end]
}

func offsetOf(points []models.DataPoint, p models.DataPoint) int {
	lo, hi := 0, len(points)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if points[mid].X() < p.X() {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// decimate flattens points into x/y slices. Above limit points it keeps the
// lowest and highest sample of each bucket so spikes survive.
func decimate(points []models.DataPoint, limit int) ([]float64, []float64) {
	if len(points) <= limit || limit < 2 {
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = float64(p.X())
			ys[i] = p.Y()
		}
		return xs, ys
	}

	buckets := limit / 2
	size := (len(points) + buckets - 1) / buckets
	xs := make([]float64, 0, limit)
	ys := make([]float64, 0, limit)
	for start := 0; start < len(points); start += size {
		end := min(start+size, len(points))
		lo, hi := start, start
		for i := start + 1; i < end; i++ {
			if points[i].Y() < points[lo].Y() {
				lo = i
			}
			if points[i].Y() > points[hi].Y() {
				hi = i
			}
		}
		first, second := lo, hi
		if first > second {
			first, second = second, first
		}
		xs = append(xs, float64(points[first].X()))
		ys = append(ys, points[first].Y())
		if second != first {
			xs = append(xs, float64(points[second].X()))
			ys = append(ys, points[second].Y())
		}
	}
	return xs, ys
}
