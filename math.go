package windfield

import (
	"math"
)

const maxFloat = math.MaxFloat64

func pow2(x float64) float64 {
	return x * x
}

func Lerp(value1, value2, amount float64) float64 { return value1 + (value2-value1)*amount }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hsvToRGB converts a hue in degrees with saturation and value in [0, 1].
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 60
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))

	switch {
	case h < 1:
		r, g, b = c, x, 0
	case h < 2:
		r, g, b = x, c, 0
	case h < 3:
		r, g, b = 0, c, x
	case h < 4:
		r, g, b = 0, x, c
	case h < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := v - c
	return r + m, g + m, b + m
}
