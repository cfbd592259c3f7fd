package mapgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ylOrRd is the yellow-to-red ramp used for density rendering.
var ylOrRd = []string{"#ffffb2", "#fecc5c", "#fd8d3c", "#f03b20", "#bd0026"}

const (
	minCircleRadius = 4
	maxCircleRadius = 20
)

// LinearScale maps values in [Min, Max] onto the density color ramp and the
// circle-marker radius range.
type LinearScale struct {
	Min float64
	Max float64
}

// NewLinearScale builds a scale spanning the observed values. A degenerate
// range is widened by one so interpolation stays defined.
func NewLinearScale(values []float64) LinearScale {
	if len(values) == 0 {
		return LinearScale{Min: 0, Max: 1}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	return LinearScale{Min: lo, Max: hi}
}

// Color returns the ramp color for v as a #rrggbb hex string. Values outside
// the range clamp to the ramp ends.
func (s LinearScale) Color(v float64) string {
	pos := s.unit(v) * float64(len(ylOrRd)-1)
	i := int(pos)
	if i >= len(ylOrRd)-1 {
		return ylOrRd[len(ylOrRd)-1]
	}

	frac := pos - float64(i)
	r0, g0, b0 := hexRGB(ylOrRd[i])
	r1, g1, b1 := hexRGB(ylOrRd[i+1])

	return fmt.Sprintf("#%02x%02x%02x", lerp(r0, r1, frac), lerp(g0, g1, frac), lerp(b0, b1, frac))
}

// Radius maps v onto a circle-marker radius in pixels.
func (s LinearScale) Radius(v float64) float64 {
	return minCircleRadius + s.unit(v)*(maxCircleRadius-minCircleRadius)
}

// unit positions v in [0, 1] along the scale.
func (s LinearScale) unit(v float64) float64 {
	t := (v - s.Min) / (s.Max - s.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func hexRGB(s string) (r, g, b int) {
	v, _ := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}

func lerp(a, b int, t float64) int {
	return a + int(math.Round(float64(b-a)*t))
}
