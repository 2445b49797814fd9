package mandelbrot2d

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"testing"
	"time"
)

func newTestRenderer(t *testing.T, w, h, maxIter, workers int) *Renderer {
	t.Helper()
	r, err := NewRenderer(Config{
		Geometry:      Geometry{Width: w, Height: h},
		Viewport:      Classic,
		MaxIterations: maxIter,
		Workers:       workers,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewRendererValidates(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero iterations", Config{Geometry{10, 10}, Classic, 0, 1}, ErrInvalidConfiguration},
		{"negative iterations", Config{Geometry{10, 10}, Classic, -3, 1}, ErrInvalidConfiguration},
		{"empty geometry", Config{Geometry{0, 10}, Classic, 10, 1}, ErrInvalidConfiguration},
		{"inverted viewport", Config{Geometry{10, 10}, Viewport{1, -1, -1, 1}, 10, 1}, ErrInvalidViewport},
	}
	for _, tc := range testCases {
		if _, err := NewRenderer(tc.cfg); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	r := newTestRenderer(t, 4, 4, 10, 0)
	if r.Config().Workers <= 0 {
		t.Errorf("workers not defaulted: %d", r.Config().Workers)
	}
}

func TestScenarioClassic100(t *testing.T) {
	r := newTestRenderer(t, 100, 100, 100, 1)

	cx, cy := r.Config().Viewport.Map(0, 0, r.Config().Geometry)
	if cx != -2.5 || cy != -1 {
		t.Fatalf("pixel (0,0) maps to (%g,%g)", cx, cy)
	}
	n := r.Iterations(0, 0)
	if n < 1 || n > 9 {
		t.Errorf("pixel (0,0) took %d iterations, want a few", n)
	}
	if c := r.Shade(0, 0); c == black {
		t.Errorf("pixel (0,0) is black")
	}

	// (71, 50) maps to (-0.015, 0) inside the main cardioid
	if n := r.Iterations(71, 50); n != 100 {
		cx, cy := r.Config().Viewport.Map(71, 50, r.Config().Geometry)
		t.Errorf("pixel (71,50) at (%g,%g) took %d iterations, want 100", cx, cy, n)
	}
	if c := r.Shade(71, 50); c != black {
		t.Errorf("saturated pixel is %v, want black", c)
	}
}

func TestRenderMatchesShade(t *testing.T) {
	for _, workers := range []int{1, 3, 64} {
		r := newTestRenderer(t, 37, 23, 80, workers)
		img := r.Render()
		if img.Bounds() != image.Rect(0, 0, 37, 23) {
			t.Fatalf("bounds %v", img.Bounds())
		}
		for py := 0; py < 23; py++ {
			for px := 0; px < 37; px++ {
				want := r.Shade(px, py)
				off := (py*37 + px) * 4
				got := img.Pix[off : off+4]
				if got[0] != want.R || got[1] != want.G || got[2] != want.B || got[3] != 255 {
					t.Fatalf("workers=%d pixel (%d,%d): got %v, want %v", workers, px, py, got, want)
				}
			}
		}
	}
}

func TestRenderTileGlobalCoordinates(t *testing.T) {
	r := newTestRenderer(t, 40, 30, 60, 2)
	full := r.Render()

	tile := r.RenderTile(image.Rect(32, 24, 48, 40))
	if tile.Bounds() != image.Rect(32, 24, 40, 30) {
		t.Fatalf("tile not clipped to frame: %v", tile.Bounds())
	}
	for py := 24; py < 30; py++ {
		for px := 32; px < 40; px++ {
			if tile.NRGBAAt(px, py) != full.NRGBAAt(px, py) {
				t.Fatalf("pixel (%d,%d) differs from full render", px, py)
			}
		}
	}
}

func TestStreamAssemblesFrame(t *testing.T) {
	r := newTestRenderer(t, 40, 30, 60, 3)
	full := r.Render()

	tiles, err := r.Stream(context.Background(), 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	got := image.NewNRGBA(r.Bounds())
	seen := make(map[image.Rectangle]bool)
	for tile := range tiles {
		if seen[tile.Bounds()] {
			t.Errorf("tile %v sent twice", tile.Bounds())
		}
		seen[tile.Bounds()] = true
		draw.Draw(got, tile.Bounds(), tile, tile.Bounds().Min, draw.Src)
	}
	if len(seen) != 6 {
		t.Errorf("got %d tiles, want 6", len(seen))
	}
	for i := range full.Pix {
		if got.Pix[i] != full.Pix[i] {
			t.Fatalf("assembled frame differs at byte %d", i)
		}
	}

	if _, err := r.Stream(context.Background(), 0, 16); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero tile width: got %v", err)
	}
}

func TestStreamCancel(t *testing.T) {
	r := newTestRenderer(t, 256, 256, 200, 2)
	ctx, cancel := context.WithCancel(context.Background())
	tiles, err := r.Stream(ctx, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	<-tiles
	cancel()

	timeout := time.After(5 * time.Second)
	received := 1
	for {
		select {
		case _, ok := <-tiles:
			if !ok {
				if received >= 32*32 {
					t.Errorf("cancel did not stop the stream early")
				}
				return
			}
			received++
		case <-timeout:
			t.Fatal("stream not closed after cancel")
		}
	}
}

func TestMapFunction(t *testing.T) {
	if v := Map(5, 0, 10, 100, 200); v != 150 {
		t.Errorf("got %g", v)
	}
	if v := Map(0, 0, 10, -1, 1); v != -1 {
		t.Errorf("got %g", v)
	}
	if v := Map(10, 0, 10, -1, 1); math.Abs(v-1) > 1e-15 {
		t.Errorf("got %g", v)
	}
}
