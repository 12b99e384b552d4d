// Package charts renders dashboard charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
)

// ContentType of every rendered chart.
const ContentType = "image/png"

// ErrNotEnoughData is returned when a chart has too few points to draw.
var ErrNotEnoughData = errors.New("not enough data to render chart")

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats the remote API emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type point struct {
	t time.Time
	v float64
}

// toPoints parses and sorts history points, dropping undated entries.
func toPoints(history []models.HistoryPoint) []point {
	out := make([]point, 0, len(history))
	for _, h := range history {
		if t, ok := ParseDate(h.Date); ok {
			out = append(out, point{t: t, v: h.Value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].t.Before(out[j].t) })
	return out
}

func split(points []point) ([]time.Time, []float64) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.t
		ys[i] = p.v
	}
	return xs, ys
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func dateFormatter(layout string) chart.ValueFormatter {
	return func(v interface{}) string {
		if t, ok := v.(float64); ok {
			return chart.TimeFromFloat64(t).Format(layout)
		}
		return ""
	}
}

func render(r interface {
	Render(chart.RendererProvider, io.Writer) error
}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAllocation renders the portfolio allocation as a pie chart.
func RenderAllocation(entries []viewmodel.AllocationEntry) ([]byte, error) {
	values := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		if e.Amount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: e.Amount,
			Label: fmt.Sprintf("%s %s%%", e.Ticker, common.FormatNumber(e.Percentage, 1)),
			Style: chart.Style{
				FillColor:   hexColor(e.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("allocation: %w", ErrNotEnoughData)
	}

	pie := chart.PieChart{
		Title:  "Portfolio Allocation",
		Width:  480,
		Height: 480,
		Values: values,
	}
	return render(pie)
}

// RenderHistory renders a security's price history as a line chart.
func RenderHistory(ticker string, history []models.HistoryPoint) ([]byte, error) {
	points := toPoints(history)
	if len(points) < 2 {
		return nil, fmt.Errorf("%s history: need at least 2 data points, got %d: %w", ticker, len(points), ErrNotEnoughData)
	}
	xs, ys := split(points)

	graph := chart.Chart{
		Title:  ticker + " Price History",
		Width:  900,
		Height: 360,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateFormatter("Jan 06"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatCurrency(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: ticker,
				Style: chart.Style{
					StrokeColor: hexColor("#3B82F6"),
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(graph)
}

// RenderMacro renders a macro series history with its forecast and
// confidence band. Either part may be empty, but together they need at
// least two points.
func RenderMacro(name string, history []models.HistoryPoint, forecast []models.ForecastPoint) ([]byte, error) {
	hist := toPoints(history)

	var fc, hi, lo []point
	for _, f := range forecast {
		t, ok := ParseDate(f.Date)
		if !ok {
			continue
		}
		fc = append(fc, point{t, f.Value})
		hi = append(hi, point{t, f.High})
		lo = append(lo, point{t, f.Low})
	}
	byTime := func(p []point) {
		sort.Slice(p, func(i, j int) bool { return p[i].t.Before(p[j].t) })
	}
	byTime(fc)
	byTime(hi)
	byTime(lo)

	if len(hist)+len(fc) < 2 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotEnoughData)
	}

	var series []chart.Series
	if len(hist) > 0 {
		xs, ys := split(hist)
		series = append(series, chart.TimeSeries{
			Name:    "History",
			Style:   chart.Style{StrokeColor: hexColor("#8B5CF6"), StrokeWidth: 2},
			XValues: xs,
			YValues: ys,
		})
	}
	if len(fc) > 0 {
		xs, ys := split(fc)
		series = append(series, chart.TimeSeries{
			Name: "Forecast",
			Style: chart.Style{
				StrokeColor:     hexColor("#10B981"),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: xs,
			YValues: ys,
		})
		for _, band := range []struct {
			name string
			pts  []point
		}{{"High", hi}, {"Low", lo}} {
			bx, by := split(band.pts)
			series = append(series, chart.TimeSeries{
				Name: band.name,
				Style: chart.Style{
					StrokeColor:     hexColor("#9CA3AF"),
					StrokeWidth:     1,
					StrokeDashArray: []float64{2.0, 2.0},
				},
				XValues: bx,
				YValues: by,
			})
		}
	}

	graph := chart.Chart{
		Title:  name,
		Width:  900,
		Height: 360,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateFormatter("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatNumber(f, 2)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	return render(graph)
}
