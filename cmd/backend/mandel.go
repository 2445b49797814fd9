package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"mandelbrot2d"
	"mandelbrot2d/encode"
)

const (
	defaultWidth   = 1080
	defaultHeight  = 660
	defaultMaxIter = 1000

	maxPixels  = 4096 * 4096
	maxIterCap = 100000
)

type viewportPayload struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Ymin float64 `json:"ymin"`
	Ymax float64 `json:"ymax"`
}

func toPayload(v mandelbrot2d.Viewport) viewportPayload {
	return viewportPayload{Xmin: v.Xmin, Xmax: v.Xmax, Ymin: v.Ymin, Ymax: v.Ymax}
}

type mandelRequest struct {
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Iter     int              `json:"iter"`
	Viewport *viewportPayload `json:"viewport,omitempty"`
	Region   string           `json:"region,omitempty"`
	Format   string           `json:"format,omitempty"`
}

// requestFromQuery reads a mandelRequest from URL parameters. The viewport
// is taken only when all four bounds are present, and each must parse.
func requestFromQuery(r *http.Request) (mandelRequest, error) {
	req := mandelRequest{
		Width:  qi(r, "width", defaultWidth),
		Height: qi(r, "height", defaultHeight),
		Iter:   qi(r, "iter", defaultMaxIter),
		Region: r.URL.Query().Get("region"),
		Format: r.URL.Query().Get("format"),
	}
	q := r.URL.Query()
	if q.Has("xmin") && q.Has("xmax") && q.Has("ymin") && q.Has("ymax") {
		var bounds [4]float64
		for i, key := range []string{"xmin", "xmax", "ymin", "ymax"} {
			f, err := qf(r, key, 0)
			if err != nil {
				return mandelRequest{}, fmt.Errorf("%w: %v", mandelbrot2d.ErrInvalidViewport, err)
			}
			bounds[i] = f
		}
		req.Viewport = &viewportPayload{Xmin: bounds[0], Xmax: bounds[1], Ymin: bounds[2], Ymax: bounds[3]}
	}
	return req, nil
}

// config fills in defaults and validates the request.
func (req mandelRequest) config() (mandelbrot2d.Config, encode.Format, error) {
	if req.Width == 0 {
		req.Width = defaultWidth
	}
	if req.Height == 0 {
		req.Height = defaultHeight
	}
	if req.Iter == 0 {
		req.Iter = defaultMaxIter
	}
	// each side first so the product cannot overflow
	if req.Width > maxPixels || req.Height > maxPixels ||
		req.Width*req.Height > maxPixels || req.Iter > maxIterCap {
		return mandelbrot2d.Config{}, "", fmt.Errorf("%w: %dx%d with %d iterations exceeds server limits",
			mandelbrot2d.ErrInvalidConfiguration, req.Width, req.Height, req.Iter)
	}

	vp := mandelbrot2d.Classic
	if req.Region != "" {
		var ok bool
		if vp, ok = mandelbrot2d.Region(req.Region); !ok {
			return mandelbrot2d.Config{}, "", fmt.Errorf("%w: unknown region %q", mandelbrot2d.ErrInvalidViewport, req.Region)
		}
	}
	if p := req.Viewport; p != nil {
		vp = mandelbrot2d.Viewport{Xmin: p.Xmin, Xmax: p.Xmax, Ymin: p.Ymin, Ymax: p.Ymax}
	}

	f, err := encode.ParseFormat(req.Format)
	if err != nil {
		return mandelbrot2d.Config{}, "", err
	}

	cfg := mandelbrot2d.Config{
		Geometry:      mandelbrot2d.Geometry{Width: req.Width, Height: req.Height},
		Viewport:      vp,
		MaxIterations: req.Iter,
	}
	if err := cfg.Validate(); err != nil {
		return mandelbrot2d.Config{}, "", err
	}
	return cfg, f, nil
}

func isBadRequest(err error) bool {
	return errors.Is(err, mandelbrot2d.ErrInvalidViewport) ||
		errors.Is(err, mandelbrot2d.ErrInvalidConfiguration) ||
		errors.Is(err, encode.ErrUnknownFormat)
}

func renderResponse(w http.ResponseWriter, req mandelRequest) {
	cfg, f, err := req.config()
	if err != nil {
		if isBadRequest(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	r, err := mandelbrot2d.NewRenderer(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img := r.Render()

	var buf bytes.Buffer
	if err := encode.Encode(&buf, img, f); err != nil {
		log.Printf("encode %s: %v", f, err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write response: %v", err)
	}
}

func mandelGETHandler(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderResponse(w, req)
}

func mandelPOSTHandler(w http.ResponseWriter, r *http.Request) {
	var req mandelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	renderResponse(w, req)
}
