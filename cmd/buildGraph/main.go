package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/i5heu/GoBoundedQueue/internal/report"
)

// series maps implementation -> concurrency (producers+consumers) -> samples.
type series map[string]map[float64][]float64

func (s series) add(impl string, x, y float64) {
	if s[impl] == nil {
		s[impl] = make(map[float64][]float64)
	}
	s[impl][x] = append(s[impl][x], y)
}

// groupByCPU splits the sessions into ns/msg and rejection-rate series per
// GOMAXPROCS value.
func groupByCPU(sessions []report.FullReport) (nsPerMsg, rejections map[int]series) {
	nsPerMsg = make(map[int]series)
	rejections = make(map[int]series)
	for _, session := range sessions {
		cpus := session.SystemInfo.CPUs()
		if nsPerMsg[cpus] == nil {
			nsPerMsg[cpus] = make(series)
			rejections[cpus] = make(series)
		}
		for _, b := range session.Benchmarks {
			x := float64(b.NumProducers + b.NumConsumers)
			rejections[cpus].add(b.Implementation, x, b.RejectionRate()*100)

			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumMessagesConsumed == 0 {
				continue
			}
			nsPerMsg[cpus].add(b.Implementation, x, float64(dur.Nanoseconds())/float64(b.NumMessagesConsumed))
		}
	}
	return nsPerMsg, rejections
}

// medianPoints is a median line over categorical x positions.
type medianPoints []struct{ x, y float64 }

func (m medianPoints) Len() int                { return len(m) }
func (m medianPoints) XY(i int) (x, y float64) { return m[i].x, m[i].y }

// categoryTicks implements a categorical X-axis: 0,1,2,... => labels for concurrency.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// nsTicks labels a linear axis in ns/µs/ms.
type nsTicks struct{}

func (nsTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatNs(ticks[i].Value)
		}
	}
	return ticks
}

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	sessions, err := report.Load(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	nsPerMsg, rejections := groupByCPU(sessions)
	for cpus := range nsPerMsg {
		throughputPlot := newDarkPlot(
			fmt.Sprintf("Median time per message vs. concurrency, %d CPU(s)", cpus),
			"Time per Msg")
		throughputPlot.Y.Tick.Marker = nsTicks{}
		if err := drawSeries(throughputPlot, nsPerMsg[cpus]); err != nil {
			fmt.Fprintf(os.Stderr, "Error drawing %d CPU(s): %v\n", cpus, err)
			continue
		}
		save(throughputPlot, fmt.Sprintf("%s_%d.png", *outputPrefix, cpus))

		rejectPlot := newDarkPlot(
			fmt.Sprintf("Median full-queue rejections vs. concurrency, %d CPU(s)", cpus),
			"Rejected pushes (%)")
		if err := drawSeries(rejectPlot, rejections[cpus]); err != nil {
			fmt.Fprintf(os.Stderr, "Error drawing rejections for %d CPU(s): %v\n", cpus, err)
			continue
		}
		save(rejectPlot, fmt.Sprintf("%s_%d_rejections.png", *outputPrefix, cpus))
	}
}

func save(p *plot.Plot, filename string) {
	if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", filename, err)
		return
	}
	fmt.Printf("Graph saved to %s\n", filename)
}

func newDarkPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "NumProducers + NumConsumers"
	p.Y.Label.Text = yLabel

	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white
	p.Add(plotter.NewGrid())
	return p
}

// drawSeries adds one median line per implementation, with concurrency
// levels spread over categorical x positions.
func drawSeries(p *plot.Plot, s series) error {
	concSet := make(map[float64]struct{})
	for _, byConc := range s {
		for x := range byConc {
			concSet[x] = struct{}{}
		}
	}
	var concValues []float64
	for x := range concSet {
		concValues = append(concValues, x)
	}
	sort.Float64s(concValues)

	category := make(map[float64]float64, len(concValues))
	ticks := categoryTicks{}
	for i, x := range concValues {
		category[x] = float64(i)
		ticks.positions = append(ticks.positions, float64(i))
		ticks.labels = append(ticks.labels, strconv.FormatFloat(x, 'f', -1, 64))
	}
	p.X.Tick.Marker = ticks

	var implNames []string
	for name := range s {
		implNames = append(implNames, name)
	}
	sort.Strings(implNames)

	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	for i, impl := range implNames {
		var pts medianPoints
		for _, x := range concValues {
			samples := s[impl][x]
			if len(samples) == 0 {
				continue
			}
			sort.Float64s(samples)
			pts = append(pts, struct{ x, y float64 }{category[x], median(samples)})
		}
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", impl, err)
		}
		c := plotutil.SoftColors[i%len(plotutil.SoftColors)]
		line.Color = c
		points.Color = c
		points.Shape = shapes[i%len(shapes)]
		points.Radius = vg.Points(5)

		p.Add(line, points)
		p.Legend.Add(impl, line, points)
	}
	return nil
}

// median of an already sorted, non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
