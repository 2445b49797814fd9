package mandelbrot2d

import (
	"fmt"
	"image"
)

// Tiles splits r into tiles of size tileW × tileH in row-major order.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func Tiles(r image.Rectangle, tileW, tileH int) ([]image.Rectangle, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidConfiguration, tileW, tileH)
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles, nil
}
