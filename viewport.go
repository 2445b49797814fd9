package mandelbrot2d

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrInvalidViewport      = errors.New("invalid viewport")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Viewport is the rectangle of the complex plane that gets plotted.
// X is the real axis, Y the imaginary one.
type Viewport struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// NewViewport returns a validated Viewport.
func NewViewport(xmin, xmax, ymin, ymax float64) (Viewport, error) {
	v := Viewport{Xmin: xmin, Xmax: xmax, Ymin: ymin, Ymax: ymax}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

// Validate reports ErrInvalidViewport if an interval is inverted,
// degenerate or not finite.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.Xmin, v.Xmax, v.Ymin, v.Ymax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidViewport, v)
		}
	}
	if v.Xmin >= v.Xmax {
		return fmt.Errorf("%w: real range [%g, %g]", ErrInvalidViewport, v.Xmin, v.Xmax)
	}
	if v.Ymin >= v.Ymax {
		return fmt.Errorf("%w: imaginary range [%g, %g]", ErrInvalidViewport, v.Ymin, v.Ymax)
	}
	return nil
}

// Map scales pixel (px, py) of a screen with geometry g into the viewport.
// The divisor is the full dimension, so the last pixel stays short of Xmax/Ymax.
func (v Viewport) Map(px, py int, g Geometry) (cx, cy float64) {
	cx = Map(float64(px), 0, float64(g.Width), v.Xmin, v.Xmax)
	cy = Map(float64(py), 0, float64(g.Height), v.Ymin, v.Ymax)
	return cx, cy
}

// Map linearly maps value from [oLow, oHi] to [nLow, nHi].
func Map(value, oLow, oHi, nLow, nHi float64) float64 {
	return nLow + (value-oLow)*(nHi-nLow)/(oHi-oLow)
}

// Geometry is the pixel size of a render.
type Geometry struct {
	Width, Height int
}

func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: geometry %dx%d", ErrInvalidConfiguration, g.Width, g.Height)
	}
	return nil
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Classic – the whole set
	Classic = Viewport{Xmin: -2.5, Xmax: 1, Ymin: -1, Ymax: 1}

	// Seahorse Valley – dense filaments and repeating "seahorse" curls
	SeahorseValley = Viewport{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Viewport{Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Viewport{Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Viewport{Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Viewport{Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850}

	// Minibrot in a Mini-Spiral – self-similar copy inside a spiral arm
	MinibrotInMiniSpiral = Viewport{Xmin: -1.7390, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.0220}
)

var regions = map[string]Viewport{
	"classic":                 Classic,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// Region looks up a landmark by name, case-insensitively.
func Region(name string) (Viewport, bool) {
	v, ok := regions[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// RegionNames returns the landmark names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for n := range regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
