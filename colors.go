package mandelbrot2d

import (
	"fmt"
	"image/color"
	"math"
)

// Control points of the palette. The last one blends back into the first.
// https://stackoverflow.com/questions/16500656/which-color-gradient-is-used-to-color-mandelbrot-in-wikipedia
var Palette = [5]color.NRGBA{
	{0, 7, 100, 255},
	{32, 107, 203, 255},
	{237, 255, 255, 255},
	{255, 170, 0, 255},
	{0, 2, 0, 255},
}

// Segment bounds on the normalized iteration axis.
const (
	Break0 = 0.0
	Break1 = 0.16
	Break2 = 0.42
	Break3 = 0.6425
	Break4 = 0.8575
	Break5 = 1.0
)

// Breakpoints[k] and Breakpoints[k+1] bound the segment that blends
// Palette[k] into Palette[(k+1)%len(Palette)].
var Breakpoints = [len(Palette) + 1]float64{Break0, Break1, Break2, Break3, Break4, Break5}

var black = color.NRGBA{0, 0, 0, 255}

// ColorMap turns iteration counts into colors.
type ColorMap struct {
	maxIter int
}

func NewColorMap(maxIter int) (ColorMap, error) {
	if maxIter <= 0 {
		return ColorMap{}, fmt.Errorf("%w: max iterations %d", ErrInvalidConfiguration, maxIter)
	}
	return ColorMap{maxIter: maxIter}, nil
}

func (m ColorMap) MaxIterations() int { return m.maxIter }

// Pick returns the color for n iterations. Points that never escaped are black.
func (m ColorMap) Pick(n int) color.NRGBA {
	if n >= m.maxIter {
		return black
	}
	return Interpolate(Map(float64(n), 0, float64(m.maxIter), 0, 1))
}

// Interpolate returns the palette color at position t of [0, 1].
// NaN is treated as 0.
func Interpolate(t float64) color.NRGBA {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Min(math.Max(t, 0), 1)

	k := segment(t)
	lo, hi := Breakpoints[k], Breakpoints[k+1]
	u := Map(t, lo, hi, 0, 1)

	c0 := Palette[k]
	c1 := Palette[(k+1)%len(Palette)]
	return lerpColor(c0, c1, u)
}

// segment picks k with Breakpoints[k] < t <= Breakpoints[k+1]; t == 0 is segment 0.
func segment(t float64) int {
	last := len(Breakpoints) - 2
	for k := 0; k < last; k++ {
		if t <= Breakpoints[k+1] {
			return k
		}
	}
	return last
}

// lerp truncates toward zero after clamping to the channel range.
func lerp(a, b uint8, t float64) uint8 {
	v := float64(a) + t*(float64(b)-float64(a))
	return uint8(math.Min(math.Max(v, 0), 255))
}

func lerpColor(c1, c2 color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerp(c1.R, c2.R, t),
		G: lerp(c1.G, c2.G, t),
		B: lerp(c1.B, c2.B, t),
		A: 255,
	}
}
