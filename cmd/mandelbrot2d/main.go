package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"mandelbrot2d"
	"mandelbrot2d/encode"
)

const (
	defaultWidth   = 1920
	defaultHeight  = 1080
	defaultMaxIter = 1000
)

type options struct {
	cfg    mandelbrot2d.Config
	format encode.Format
	out    string
	thumb  int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("mandelbrot2d", flag.ContinueOnError)
	fs.SetOutput(stderr)

	width := fs.Int("width", defaultWidth, "image width in pixels")
	height := fs.Int("height", defaultHeight, "image height in pixels")
	iter := fs.Int("iter", defaultMaxIter, "maximum iterations per pixel")
	workers := fs.Int("workers", 0, "render goroutines (0: one per CPU)")
	region := fs.String("region", "classic", "named region to render")
	xmin := fs.Float64("xmin", math.NaN(), "real axis minimum (overrides -region)")
	xmax := fs.Float64("xmax", math.NaN(), "real axis maximum")
	ymin := fs.Float64("ymin", math.NaN(), "imaginary axis minimum")
	ymax := fs.Float64("ymax", math.NaN(), "imaginary axis maximum")
	format := fs.String("format", "", "output format: png, bmp or tiff (default: from -o extension)")
	out := fs.String("o", "mandel.png", "output file")
	thumb := fs.Int("thumb", 0, "also write a thumbnail no larger than this many pixels per side")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	vp, ok := mandelbrot2d.Region(*region)
	if !ok {
		return options{}, fmt.Errorf("unknown region %q, want one of %v", *region, mandelbrot2d.RegionNames())
	}
	bounds := []float64{*xmin, *xmax, *ymin, *ymax}
	set := 0
	for _, b := range bounds {
		if !math.IsNaN(b) {
			set++
		}
	}
	switch set {
	case 0:
	case 4:
		vp = mandelbrot2d.Viewport{Xmin: *xmin, Xmax: *xmax, Ymin: *ymin, Ymax: *ymax}
	default:
		return options{}, fmt.Errorf("%w: -xmin, -xmax, -ymin and -ymax must be given together", mandelbrot2d.ErrInvalidViewport)
	}

	name := *format
	if name == "" {
		name = filepath.Ext(*out)
	}
	f, err := encode.ParseFormat(name)
	if err != nil {
		return options{}, err
	}

	cfg := mandelbrot2d.Config{
		Geometry:      mandelbrot2d.Geometry{Width: *width, Height: *height},
		Viewport:      vp,
		MaxIterations: *iter,
		Workers:       *workers,
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	return options{cfg: cfg, format: f, out: *out, thumb: *thumb}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("flags: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run(opts options) error {
	r, err := mandelbrot2d.NewRenderer(opts.cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	img := r.Render()
	log.Printf("rendered %dx%d in %s", opts.cfg.Geometry.Width, opts.cfg.Geometry.Height, time.Since(start))

	if err := writeImage(opts.out, img, opts.format); err != nil {
		return err
	}
	log.Printf("saved %q", opts.out)

	if opts.thumb > 0 {
		ext := filepath.Ext(opts.out)
		name := opts.out[:len(opts.out)-len(ext)] + "_thumb" + ext
		if err := writeImage(name, encode.Thumbnail(img, opts.thumb, opts.thumb), opts.format); err != nil {
			return err
		}
		log.Printf("saved %q", name)
	}
	return nil
}

func writeImage(name string, img image.Image, f encode.Format) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	if err := encode.Encode(file, img, f); err != nil {
		return fmt.Errorf("could not encode %s: %w", f, err)
	}
	return file.Close()
}
