package atlas

import (
	"fmt"
	"strconv"
)

// Color is an RGBA quadruple as it appears in a FreeSurfer color LUT.
// It is comparable, so it can key maps directly (duplicate detection).
type Color struct {
	R, G, B, A uint8
}

// String renders the color the way LUT rows do, space-separated channels.
func (c Color) String() string {
	return fmt.Sprintf("%d %d %d %d", c.R, c.G, c.B, c.A)
}

// parseChannel parses a single 0-255 color channel.
func parseChannel(s string) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color channel %q: %w", s, err)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("color channel %d out of range 0-255", v)
	}
	return uint8(v), nil
}

// parseColor parses four whitespace-split channel fields into a Color.
func parseColor(fields []string) (Color, error) {
	if len(fields) != 4 {
		return Color{}, fmt.Errorf("expected 4 color channels, got %d", len(fields))
	}
	var ch [4]uint8
	for i, f := range fields {
		v, err := parseChannel(f)
		if err != nil {
			return Color{}, err
		}
		ch[i] = v
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
