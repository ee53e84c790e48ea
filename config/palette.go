package config

import "serialplot/models"

const WHITE = "#FFFFFF"
const RED = "#D9004C"
const GREEN = "#7cfc00"
const BLUE = "#4169e1"
const YELLOW = "#FFED00"
const ORANGE = "#FF6F00"
const CYAN = "#00C9FF"
const MINT = "#92FE9D"
const GREY = "#888888"

// Palette is cycled through by channel index.
var Palette = [][]models.ColourStop{
	{{Offset: "100%", Color: YELLOW}},
	{{Offset: "100%", Color: CYAN}},
	{{Offset: "100%", Color: RED}},
	{{Offset: "100%", Color: GREEN}},
	{{Offset: "100%", Color: ORANGE}},
	{{Offset: "100%", Color: BLUE}},
	{{Offset: "0%", Color: MINT}, {Offset: "100%", Color: CYAN}},
	{{Offset: "100%", Color: WHITE}},
}

// ChannelColours returns the colour stops for n channels.
func ChannelColours(n int) [][]models.ColourStop {
	colours := make([][]models.ColourStop, n)
	for i := range colours {
		colours[i] = Palette[i%len(Palette)]
	}
	return colours
}

// PrimaryColour is the last stop of a channel's gradient, used where a single
// colour is needed.
func PrimaryColour(stops []models.ColourStop) string {
	if len(stops) == 0 {
		return GREY
	}
	return stops[len(stops)-1].Color
}
