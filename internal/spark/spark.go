// Package spark records the recent signal-quality series in a fixed ring
// buffer and renders it as a sparkline PNG for the console.
package spark

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/wcharczuk/go-chart/v2"
)

// Capacity is the number of samples the sparkline keeps; the oldest sample
// is evicted first.
const Capacity = 80

const (
	renderWidth  = 320
	renderHeight = 80
)

// Recorder is a fixed-capacity FIFO of quality samples.
type Recorder struct {
	mu  sync.Mutex
	buf []float64
	cap int
}

func NewRecorder() *Recorder {
	return &Recorder{cap: Capacity}
}

func (r *Recorder) Push(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, v)
	if len(r.buf) > r.cap {
		r.buf = r.buf[1:]
	}
}

// Values returns the buffered samples oldest first.
func (r *Recorder) Values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.buf...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Render writes the full polyline as a PNG; every call redraws from scratch.
// X is the sample index against the buffer capacity, Y is the 0-100 quality
// scale. Zero samples produce a blank strip and one sample a single dot,
// neither is an error.
func (r *Recorder) Render(w io.Writer) error {
	vals := r.Values()
	if len(vals) < 2 {
		return renderDegenerate(w, vals)
	}

	xs := make([]float64, len(vals))
	for i := range vals {
		xs[i] = float64(i)
	}

	graph := chart.Chart{
		Width:  renderWidth,
		Height: renderHeight,
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: float64(r.cap - 1)},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: vals,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 1.5,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// renderDegenerate covers the 0 and 1 sample cases, which go-chart cannot
// plot as a polyline.
func renderDegenerate(w io.Writer, vals []float64) error {
	img := image.NewRGBA(image.Rect(0, 0, renderWidth, renderHeight))
	if len(vals) == 1 {
		v := vals[0]
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		y := renderHeight - 1 - int(v/100*float64(renderHeight-1))
		dot := color.RGBA{R: 0, G: 116, B: 217, A: 255}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				img.Set(dx+2, y+dy, dot)
			}
		}
	}
	return png.Encode(w, img)
}
