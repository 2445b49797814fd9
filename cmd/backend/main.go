package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"mandelbrot2d"
	"mandelbrot2d/scorer"
)

type viewPayload struct {
	CX       float64         `json:"cx"`
	CY       float64         `json:"cy"`
	Scale    float64         `json:"scale"`
	Score    float64         `json:"score"`
	Viewport viewportPayload `json:"viewport"`
}

type palettePayload struct {
	Colors      [][3]uint8 `json:"colors"`
	Breakpoints []float64  `json:"breakpoints"`
}

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// qf parses a float parameter. Unlike qi, a value that does not parse is an error.
func qf(r *http.Request, key string, def float64) (float64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func qi(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func randomViewHandler(w http.ResponseWriter, r *http.Request) {
	width := qi(r, "width", defaultWidth)
	height := qi(r, "height", defaultHeight)

	rngMu.Lock()
	best := scorer.GenerateViews(rng, 1)
	rngMu.Unlock()
	if len(best) == 0 {
		http.Error(w, "no view found", http.StatusInternalServerError)
		return
	}
	v := best[0].V

	vp, err := v.Viewport(width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, viewPayload{
		CX:       v.CX,
		CY:       v.CY,
		Scale:    v.Scale,
		Score:    best[0].Score,
		Viewport: toPayload(vp),
	})
}

func paletteHandler(w http.ResponseWriter, r *http.Request) {
	p := palettePayload{Breakpoints: mandelbrot2d.Breakpoints[:]}
	for _, c := range mandelbrot2d.Palette {
		p.Colors = append(p.Colors, [3]uint8{c.R, c.G, c.B})
	}
	writeJSON(w, p)
}

func regionsHandler(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]viewportPayload)
	for _, name := range mandelbrot2d.RegionNames() {
		vp, _ := mandelbrot2d.Region(name)
		out[name] = toPayload(vp)
	}
	writeJSON(w, out)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s took %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func newMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/view/random", randomViewHandler)
	mux.HandleFunc("/api/palette", paletteHandler)
	mux.HandleFunc("/api/regions", regionsHandler)
	mux.HandleFunc("/api/mandel", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mandelPOSTHandler(w, r)
			return
		}
		mandelGETHandler(w, r)
	})
	mux.HandleFunc("/ws/tiles", tilesHandler)
	return withLogging(withCORS(mux))
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on %s", *addr)
	log.Fatal(srv.ListenAndServe())
}
