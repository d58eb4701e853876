package render

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hmizuno/zheat/internal/colormap"
	"github.com/hmizuno/zheat/internal/dataset"
	"github.com/hmizuno/zheat/internal/stats"
)

// TracesOptions configure the per-subject line chart.
type TracesOptions struct {
	Title    string
	WidthIn  float64
	HeightIn float64
	DPI      int // chart DPI, 100 by default so axis text stays readable
	Cmap     colormap.Map
	Mean     bool // overlay the cross-subject mean
}

// Traces renders one line per subject against time and writes the chart as
// PNG. Missing samples are dropped from each line, so a trace bridges its
// gaps; the y range covers the finite values only.
func Traces(tb *dataset.Table, opt TracesOptions, w io.Writer) error {
	if tb.Rows() < 2 {
		return fmt.Errorf("render: need at least two samples to draw traces, have %d", tb.Rows())
	}
	if opt.WidthIn <= 0 {
		opt.WidthIn = 20
	}
	if opt.HeightIn <= 0 {
		opt.HeightIn = 6
	}
	if opt.DPI <= 0 {
		opt.DPI = 100
	}
	if len(opt.Cmap.Stops) == 0 {
		opt.Cmap = colormap.Default
	}
	if opt.Title == "" {
		opt.Title = fmt.Sprintf("Subject Traces (n=%d)", tb.NumSubjects())
	}

	minY := math.MaxFloat64
	maxY := -math.MaxFloat64
	series := make([]chart.Series, 0, tb.NumSubjects()+1)
	n := tb.NumSubjects()
	for j := 0; j < n; j++ {
		xs, ys := finitePoints(tb.Times, tb.Column(j))
		for _, v := range ys {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
		c := opt.Cmap.At((float64(j) + 1) / float64(n+1))
		series = append(series, chart.ContinuousSeries{
			Name:    tb.Subjects[j],
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.Color{R: c.R, G: c.G, B: c.B, A: 255},
				StrokeWidth: 1.5,
			},
		})
	}
	if minY > maxY {
		return fmt.Errorf("render: no finite samples to draw")
	}

	if opt.Mean {
		means := make([]float64, tb.Rows())
		for i := range means {
			means[i] = stats.Mean(tb.Data[i])
		}
		xs, ys := finitePoints(tb.Times, means)
		series = append(series, chart.ContinuousSeries{
			Name:    "Mean",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor:     drawing.Color{A: 255},
				StrokeWidth:     2.5,
				StrokeDashArray: []float64{5, 3},
			},
		})
	}

	lo, hi := niceAxisBounds(minY, maxY)
	yTicks := make([]chart.Tick, 0, 8)
	for _, tk := range Ticks(lo, hi, 6) {
		yTicks = append(yTicks, chart.Tick{Value: tk.Value, Label: tk.Label})
	}

	ch := chart.Chart{
		Title:      opt.Title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 20}},
		Width:      int(opt.WidthIn*float64(opt.DPI) + 0.5),
		Height:     int(opt.HeightIn*float64(opt.DPI) + 0.5),
		XAxis:      chart.XAxis{Name: tb.TimeName},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: yTicks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: traces chart: %w", err)
	}
	return nil
}

// finitePoints pairs times with values, keeping a sample only when both
// sides are finite.
func finitePoints(times, values []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if t := times[i]; math.IsNaN(t) || math.IsInf(t, 0) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, v)
	}
	return xs, ys
}

// niceAxisBounds pads [min, max] by 5% and rounds both ends outward to the
// span's order of magnitude.
func niceAxisBounds(min, max float64) (float64, float64) {
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}
