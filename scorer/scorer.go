package scorer

import (
	"fmt"
	"math"
	"math/rand"

	"mandelbrot2d"
)

const (
	candidates = 2000
	sampleW    = 96
	sampleH    = 54
	sampleIter = 200
)

// View is a viewport given by its center and real-axis width.
type View struct {
	CX, CY float64
	Scale  float64
}

// Viewport converts v into a viewport with the aspect ratio of an imgW × imgH image.
func (v View) Viewport(imgW, imgH int) (mandelbrot2d.Viewport, error) {
	aspect := float64(imgH) / float64(imgW)
	halfW := v.Scale / 2
	halfH := (v.Scale * aspect) / 2

	return mandelbrot2d.NewViewport(v.CX-halfW, v.CX+halfW, v.CY-halfH, v.CY+halfH)
}

type ViewScore struct {
	V     View
	Score float64
}

// GenerateViews scores random views and returns the best n, best first.
func GenerateViews(rng *rand.Rand, n int) []ViewScore {
	return generateViews(rng, n, candidates)
}

func generateViews(rng *rand.Rand, n, tries int) []ViewScore {
	var best []ViewScore

	for i := 0; i < tries; i++ {
		v := randomView(rng)
		s, err := Score(v, sampleW, sampleH, sampleIter)
		if err != nil {
			continue
		}
		best = insertBest(best, ViewScore{V: v, Score: s}, n)
	}

	return best
}

func insertBest(list []ViewScore, vs ViewScore, max int) []ViewScore {
	list = append(list, vs)
	for i := len(list) - 1; i > 0; i-- {
		if list[i].Score > list[i-1].Score {
			list[i], list[i-1] = list[i-1], list[i]
		} else {
			break
		}
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}

func randomView(rng *rand.Rand) View {
	cx := rng.Float64()*3.5 - 2.5
	cy := rng.Float64()*3.0 - 1.5

	r := rng.Float64()
	r = r * r
	minScale := 0.0000005
	maxScale := 3.5
	scale := minScale + r*(maxScale-minScale)

	return View{CX: cx, CY: cy, Scale: scale}
}

// Score rates how interesting v looks at w × h: a mix of iteration
// histogram entropy, edge density and a preferred 40% inside ratio.
func Score(v View, w, h, maxIter int) (float64, error) {
	vp, err := v.Viewport(w, h)
	if err != nil {
		return 0, err
	}
	g := mandelbrot2d.Geometry{Width: w, Height: h}
	if err := g.Validate(); err != nil {
		return 0, err
	}
	if maxIter <= 0 {
		return 0, fmt.Errorf("%w: max iterations %d", mandelbrot2d.ErrInvalidConfiguration, maxIter)
	}

	iters := make([]int, w*h)
	var insideCount int

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			cx, cy := vp.Map(px, py, g)
			n := mandelbrot2d.Iterations(cx, cy, maxIter)
			if n == maxIter {
				insideCount++
			}
			iters[py*w+px] = n
		}
	}

	total := float64(w * h)
	insideRatio := float64(insideCount) / total
	escapeScore := max(1.0-math.Abs(insideRatio-0.4)/0.4, 0)

	bins := 32
	hist := make([]int, bins)
	for _, n := range iters {
		b := min(n*bins/maxIter, bins-1)
		hist[b]++
	}
	entropy := 0.0
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log(p)
	}
	entropyScore := entropy / math.Log(float64(bins))

	edgeCount := 0
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			idx := py*w + px
			v0 := iters[idx]
			if px+1 < w && absInt(v0-iters[idx+1]) > 2 {
				edgeCount++
			}
			if py+1 < h && absInt(v0-iters[idx+w]) > 2 {
				edgeCount++
			}
		}
	}
	edgeScore := float64(edgeCount) / float64(2*w*h)

	return 0.5*entropyScore + 0.3*edgeScore + 0.2*escapeScore, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
