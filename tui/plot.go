package tui

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"serialplot/models"
)

// seriesColours follows config.Palette as closely as the terminal allows.
var seriesColours = []asciigraph.AnsiColor{
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Orange,
	asciigraph.Blue,
	asciigraph.Aquamarine,
	asciigraph.White,
}

// resample turns a channel's points into one value per column across xRange.
// Each column takes the last point that falls in it, columns without a point
// repeat the previous value and columns before the first point are NaN.
func resample(channel models.ChannelFrame, xRange models.Range, yRange models.Range, columns int) []float64 {
	values := make([]float64, columns)
	for i := range values {
		values[i] = math.NaN()
	}
	if columns == 0 || xRange.Size() <= 0 {
		return values
	}

	step := xRange.Size() / float64(columns)
	for i, x := range channel.X {
		if x < xRange.Lower || x > xRange.Upper {
			continue
		}
		column := int((x - xRange.Lower) / step)
		if column >= columns {
			column = columns - 1
		}
		values[column] = clamp(channel.Y[i], yRange)
	}

	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
			continue
		}
		last = v
	}
	return values
}

func clamp(v float64, r models.Range) float64 {
	return math.Max(r.Lower, math.Min(r.Upper, v))
}

// plot renders the visible channels of frame into a width x height block of
// text, or "" when there is nothing to draw.
func plot(frame *models.Frame, width, height int) string {
	if frame == nil || width <= 0 || height <= 0 {
		return ""
	}

	var data [][]float64
	var colours []asciigraph.AnsiColor
	for _, channel := range frame.Channels {
		values := resample(channel, frame.XRange, frame.YRange, width)
		if allNaN(values) {
			continue
		}
		data = append(data, values)
		colours = append(colours, seriesColours[channel.Index%len(seriesColours)])
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(frame.YRange.Lower),
		asciigraph.UpperBound(frame.YRange.Upper),
		asciigraph.SeriesColors(colours...),
		asciigraph.Precision(2),
	)
}

func allNaN(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
