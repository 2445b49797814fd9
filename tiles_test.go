package mandelbrot2d

import (
	"errors"
	"image"
	"testing"
)

func TestTiles(t *testing.T) {
	r := image.Rect(0, 0, 10, 7)
	tiles, err := Tiles(r, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []image.Rectangle{
		image.Rect(0, 0, 4, 4), image.Rect(4, 0, 8, 4), image.Rect(8, 0, 10, 4),
		image.Rect(0, 4, 4, 7), image.Rect(4, 4, 8, 7), image.Rect(8, 4, 10, 7),
	}
	if len(tiles) != len(want) {
		t.Fatalf("got %d tiles, want %d", len(tiles), len(want))
	}
	area := 0
	for i := range want {
		if tiles[i] != want[i] {
			t.Errorf("tile %d: got %v, want %v", i, tiles[i], want[i])
		}
		area += tiles[i].Dx() * tiles[i].Dy()
	}
	if area != 70 {
		t.Errorf("tiles cover %d pixels, want 70", area)
	}
}

func TestTilesOffsetRect(t *testing.T) {
	tiles, err := Tiles(image.Rect(5, 5, 15, 10), 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 1 || tiles[0] != image.Rect(5, 5, 15, 10) {
		t.Errorf("got %v", tiles)
	}
}

func TestTilesInvalidSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 4}, {4, 0}, {-1, -1}} {
		if _, err := Tiles(image.Rect(0, 0, 8, 8), sz[0], sz[1]); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%v: got %v", sz, err)
		}
	}
}
