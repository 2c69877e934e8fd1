// Package colormix blends hex colors by weight. It backs the calendar
// heatmap, where a day cell takes the color of every project worked on that
// day weighted by the hours spent.
package colormix

import (
	"fmt"
	"strconv"
	"strings"
)

// FallbackColor is returned when there is nothing to blend: no inputs, all
// weights zero, or no parsable color at all.
const FallbackColor = "#ebedf0"

// Weighted pairs a hex color with its blend weight.
type Weighted struct {
	Color  string
	Weight float64
}

// Mix returns the weighted average of the inputs, channel by channel.
// Unparsable colors and non-positive weights are ignored. A single valid
// input comes back unchanged.
func Mix(inputs []Weighted) string {
	var r, g, b, total float64
	valid := 0
	last := ""

	for _, in := range inputs {
		if in.Weight <= 0 {
			continue
		}

		cr, cg, cb, err := parseHex(in.Color)
		if err != nil {
			continue
		}

		r += float64(cr) * in.Weight
		g += float64(cg) * in.Weight
		b += float64(cb) * in.Weight
		total += in.Weight
		valid++
		last = normalizeHex(in.Color)
	}

	if total == 0 {
		return FallbackColor
	}

	if valid == 1 {
		return last
	}

	return fmt.Sprintf("#%02x%02x%02x",
		clampChannel(r/total), clampChannel(g/total), clampChannel(b/total))
}

// IsHexColor reports whether the string parses as a 3 or 6 digit hex color.
func IsHexColor(color string) bool {
	_, _, _, err := parseHex(color)
	return err == nil
}

func parseHex(color string) (uint8, uint8, uint8, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", color)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", color)
	}

	return uint8(value >> 16), uint8(value >> 8), uint8(value), nil
}

func normalizeHex(color string) string {
	r, g, b, err := parseHex(color)
	if err != nil {
		return FallbackColor
	}

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampChannel(v float64) uint8 {
	rounded := int(v + 0.5)
	if rounded < 0 {
		return 0
	}

	if rounded > 255 {
		return 255
	}

	return uint8(rounded)
}
