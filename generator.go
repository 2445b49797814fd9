package mandelbrot2d

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
)

// Config describes one render. Workers <= 0 means one per available CPU.
type Config struct {
	Geometry      Geometry
	Viewport      Viewport
	MaxIterations int
	Workers       int
}

func (c Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfiguration, c.MaxIterations)
	}
	return nil
}

// Renderer evaluates every pixel of a frame. It holds no mutable state and
// may be shared between goroutines.
type Renderer struct {
	cfg  Config
	cmap ColorMap
}

func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cmap, err := NewColorMap(cfg.MaxIterations)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{cfg: cfg, cmap: cmap}, nil
}

func (r *Renderer) Config() Config { return r.cfg }

// Bounds is the full frame.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.cfg.Geometry.Width, r.cfg.Geometry.Height)
}

// Iterations returns the escape time of pixel (px, py).
func (r *Renderer) Iterations(px, py int) int {
	cx, cy := r.cfg.Viewport.Map(px, py, r.cfg.Geometry)
	return Iterations(cx, cy, r.cfg.MaxIterations)
}

// Shade returns the final color of pixel (px, py).
func (r *Renderer) Shade(px, py int) color.NRGBA {
	return r.cmap.Pick(r.Iterations(px, py))
}

// Render computes the whole frame. Pixel (px, py) lands at
// Pix[py*Stride+px*4], so the buffer is row-major.
func (r *Renderer) Render() *image.NRGBA {
	img := image.NewNRGBA(r.Bounds())
	height := r.cfg.Geometry.Height

	nw := min(r.cfg.Workers, height)

	var wg sync.WaitGroup
	wg.Add(nw)
	for w := 0; w < nw; w++ {
		go func(worker int) {
			defer wg.Done()
			for py := worker; py < height; py += nw {
				r.renderRow(img, py, img.Rect.Min.X, img.Rect.Max.X)
			}
		}(w)
	}
	wg.Wait()

	return img
}

// RenderTile renders the part of the frame covered by tile. The returned
// image keeps global coordinates (tile.Min .. tile.Max).
func (r *Renderer) RenderTile(tile image.Rectangle) *image.NRGBA {
	tile = tile.Intersect(r.Bounds())
	img := image.NewNRGBA(tile)
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		r.renderRow(img, py, tile.Min.X, tile.Max.X)
	}
	return img
}

func (r *Renderer) renderRow(img *image.NRGBA, py, x0, x1 int) {
	off := img.PixOffset(x0, py)
	pix := img.Pix
	for px := x0; px < x1; px++ {
		c := r.Shade(px, py)
		pix[off+0] = c.R
		pix[off+1] = c.G
		pix[off+2] = c.B
		pix[off+3] = c.A
		off += 4
	}
}

// Stream renders the frame tile by tile on the worker pool and sends each
// finished tile once. The channel is closed when every tile is done or ctx
// is cancelled.
func (r *Renderer) Stream(ctx context.Context, tileW, tileH int) (<-chan *image.NRGBA, error) {
	tiles, err := Tiles(r.Bounds(), tileW, tileH)
	if err != nil {
		return nil, err
	}

	work := make(chan image.Rectangle)
	out := make(chan *image.NRGBA, r.cfg.Workers)

	go func() {
		defer close(work)
		for _, t := range tiles {
			select {
			case work <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(r.cfg.Workers)
	for i := 0; i < r.cfg.Workers; i++ {
		go func() {
			defer wg.Done()
			for t := range work {
				img := r.RenderTile(t)
				select {
				case out <- img:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}
