package drivers

import (
	"fmt"
	"strconv"
	"strings"

	"go.einride.tech/can"
)

// FrameLine renders a CAN frame as a plottable line: the hex identifier as
// label, then one field per data byte, e.g. "7E8:3,65,12". Remote frames carry
// no data and are skipped.
func FrameLine(frame can.Frame) (string, bool) {
	if frame.IsRemote || frame.Length == 0 {
		return "", false
	}

	var builder strings.Builder
	if frame.IsExtended {
		fmt.Fprintf(&builder, "%08X:", frame.ID)
	} else {
		fmt.Fprintf(&builder, "%03X:", frame.ID)
	}
	for i := 0; i < int(frame.Length) && i < len(frame.Data); i++ {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(strconv.Itoa(int(frame.Data[i])))
	}
	return builder.String(), true
}
