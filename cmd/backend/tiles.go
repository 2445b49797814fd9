package main

import (
	"bytes"
	"image/png"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"mandelbrot2d"
)

const defaultTileSize = 64

// tileMessage carries one finished tile in global pixel coordinates.
// The final message of a stream has Done set and no image.
type tileMessage struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	PNG  []byte `json:"png,omitempty"`
	Done bool   `json:"done,omitempty"`
}

// tilesHandler streams a render over a websocket, one message per tile,
// in the order the workers finish them.
func tilesHandler(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, _, err := req.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer, err := mandelbrot2d.NewRenderer(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tileSize := qi(r, "tile", defaultTileSize)
	if tileSize <= 0 {
		http.Error(w, "tile size must be positive", http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	// the client never sends; CloseRead cancels ctx once it goes away
	ctx := c.CloseRead(r.Context())

	tiles, err := renderer.Stream(ctx, tileSize, tileSize)
	if err != nil {
		c.Close(websocket.StatusInternalError, err.Error())
		return
	}

	sent := 0
	for tile := range tiles {
		var buf bytes.Buffer
		if err := png.Encode(&buf, tile); err != nil {
			c.Close(websocket.StatusInternalError, "encode failed")
			return
		}
		b := tile.Bounds()
		msg := tileMessage{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy(), PNG: buf.Bytes()}
		if err := wsjson.Write(ctx, c, msg); err != nil {
			log.Printf("ws write after %d tiles: %v", sent, err)
			return
		}
		sent++
	}
	if ctx.Err() != nil {
		log.Printf("ws client gone after %d tiles", sent)
		return
	}

	if err := wsjson.Write(ctx, c, tileMessage{Done: true}); err != nil {
		log.Printf("ws write done: %v", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}
