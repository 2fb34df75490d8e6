// Package render draws the dashboard charts as SVG.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"insights-dashboard/internal/model"
)

var (
	// ErrNoData is returned when a chart has nothing to draw
	ErrNoData = errors.New("render: no data to draw")
	// ErrUnknownChart is returned for a chart name Render does not know
	ErrUnknownChart = errors.New("render: unknown chart")
)

// Chart names as used in URLs
const (
	ChartSectorIntensity     = "sector-intensity"
	ChartRegionLikelihood    = "region-likelihood"
	ChartTopics              = "topics"
	ChartRelevanceLikelihood = "relevance-likelihood"
)

// Charts lists every chart in display order
var Charts = []string{
	ChartSectorIntensity,
	ChartRegionLikelihood,
	ChartTopics,
	ChartRelevanceLikelihood,
}

// LabelShare is the slice share at or below which donut labels are hidden
const LabelShare = 0.05

const (
	defaultWidth  = 800
	defaultHeight = 400
	minWidth      = 200
	maxWidth      = 2400
)

// Size is the output canvas in pixels
type Size struct {
	Width  int
	Height int
}

// SizeFor derives a canvas from a display width. Zero means unknown.
func SizeFor(width int) Size {
	switch {
	case width <= 0:
		width = defaultWidth
	case width < minWidth:
		width = minWidth
	case width > maxWidth:
		width = maxWidth
	}
	return Size{Width: width, Height: defaultHeight}
}

func (s Size) normalize() Size {
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	return s
}

// Render draws the named chart from a summary
func Render(w io.Writer, name string, sum model.Summary, size Size) error {
	switch name {
	case ChartSectorIntensity:
		return SectorIntensity(w, sum.SectorIntensity, size)
	case ChartRegionLikelihood:
		return RegionLikelihood(w, sum.RegionLikelihood, size)
	case ChartTopics:
		return Topics(w, sum.Topics, size)
	case ChartRelevanceLikelihood:
		return RelevanceLikelihood(w, sum.Points, size)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// Known reports whether name is a chart Render can draw
func Known(name string) bool {
	for _, c := range Charts {
		if c == name {
			return true
		}
	}
	return false
}

// SectorIntensity draws mean intensity per sector as bars. Sectors with no
// intensity values have no bar.
func SectorIntensity(w io.Writer, groups []model.GroupSummary, size Size) error {
	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		if g.Mean == nil {
			continue
		}
		bars = append(bars, chart.Value{Label: g.Key, Value: *g.Mean})
	}
	return renderBars(w, "Average intensity by sector", bars, size)
}

// Topics draws topic frequencies as bars
func Topics(w io.Writer, topics []model.Frequency, size Size) error {
	bars := make([]chart.Value, 0, len(topics))
	for _, t := range topics {
		bars = append(bars, chart.Value{Label: t.Key, Value: float64(t.Count)})
	}
	return renderBars(w, "Top topics", bars, size)
}

func renderBars(w io.Writer, title string, bars []chart.Value, size Size) error {
	if len(bars) == 0 {
		return ErrNoData
	}
	size = size.normalize()

	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	if top <= 0 {
		top = 1
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth(size.Width, len(bars)),
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

func barWidth(width, n int) int {
	bw := (width - 80) / (n + 1)
	if bw < 4 {
		bw = 4
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

// RegionLikelihood draws the record count per region as a donut. Slices at or
// below LabelShare of the records are left unlabelled.
func RegionLikelihood(w io.Writer, groups []model.GroupSummary, size Size) error {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	if total == 0 {
		return ErrNoData
	}
	size = size.normalize()

	values := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		if g.Count == 0 {
			continue
		}
		label := g.Key
		if float64(g.Count)/float64(total) <= LabelShare {
			label = ""
		}
		values = append(values, chart.Value{Label: label, Value: float64(g.Count)})
	}

	dc := chart.DonutChart{
		Title:  "Records by region",
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return dc.Render(chart.SVG, w)
}

// RelevanceLikelihood draws relevance against likelihood, one colour per
// sector
func RelevanceLikelihood(w io.Writer, points []model.Point, size Size) error {
	if len(points) == 0 {
		return ErrNoData
	}
	size = size.normalize()

	order := make([]string, 0)
	bySector := make(map[string]*chart.ContinuousSeries)
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)

	for _, p := range points {
		label := p.Label
		if label == "" {
			label = "Unknown"
		}
		s, ok := bySector[label]
		if !ok {
			s = &chart.ContinuousSeries{
				Name:  label,
				Style: pointStyle(len(order)),
			}
			bySector[label] = s
			order = append(order, label)
		}
		s.XValues = append(s.XValues, p.X)
		s.YValues = append(s.YValues, p.Y)

		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	series := make([]chart.Series, 0, len(order))
	for _, label := range order {
		series = append(series, *bySector[label])
	}

	ch := chart.Chart{
		Title:      "Relevance vs likelihood",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: "Relevance", Range: padded(minX, maxX)},
		YAxis:      chart.YAxis{Name: "Likelihood", Range: padded(minY, maxY)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// pointStyle renders points only, without connecting lines
func pointStyle(index int) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    chart.GetDefaultColor(index),
	}
}

// padded widens [min, max] so a single value still has a drawable range
func padded(min, max float64) *chart.ContinuousRange {
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: min - pad, Max: max + pad}
}
