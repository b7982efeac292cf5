// Package charts builds chart data for the screening dashboard.
package charts

import (
	"math"

	"github.com/aristath/esgscreen/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one company on the ESG vs P/E scatter plot.
type Point struct {
	CompanyName *string `json:"company_name" msgpack:"company_name"`
	Ticker      string  `json:"ticker" msgpack:"ticker"`
	PERatio     float64 `json:"x" msgpack:"x"`
	ESGScore    int     `json:"y" msgpack:"y"`
}

// TrendLine is the least-squares fit of ESG score on P/E.
type TrendLine struct {
	Slope       float64 `json:"slope" msgpack:"slope"`
	Intercept   float64 `json:"intercept" msgpack:"intercept"`
	Correlation float64 `json:"correlation" msgpack:"correlation"`
	XMin        float64 `json:"x_min" msgpack:"x_min"`
	XMax        float64 `json:"x_max" msgpack:"x_max"`
}

// Scatter is the data behind the ESG vs P/E chart.
type Scatter struct {
	Trend  *TrendLine `json:"trend" msgpack:"trend"`
	XLabel string     `json:"x_label" msgpack:"x_label"`
	YLabel string     `json:"y_label" msgpack:"y_label"`
	Points []Point    `json:"points" msgpack:"points"`
}

// BuildScatter plots P/E on x and ESG score on y, one point per record.
// Records without a P/E are skipped. The trend line needs two points with distinct P/E.
func BuildScatter(records []domain.MergedRecord) Scatter {
	s := Scatter{
		XLabel: "P/E Ratio",
		YLabel: "ESG Score",
		Points: make([]Point, 0, len(records)),
	}

	for _, r := range records {
		if r.PERatio == nil {
			continue
		}
		p := Point{Ticker: r.Ticker, PERatio: *r.PERatio, ESGScore: r.ESGScore}
		if r.CompanyName != nil {
			name := *r.CompanyName
			p.CompanyName = &name
		}
		s.Points = append(s.Points, p)
	}

	s.Trend = fitTrend(s.Points)
	return s
}

func fitTrend(points []Point) *TrendLine {
	if len(points) < 2 {
		return nil
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.PERatio
		ys[i] = float64(p.ESGScore)
	}

	xMin, xMax := floats.Min(xs), floats.Max(xs)
	if xMin == xMax {
		return nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) {
		// Constant y: the fit is flat and correlation is undefined.
		corr = 0
	}

	return &TrendLine{
		Slope:       slope,
		Intercept:   intercept,
		Correlation: corr,
		XMin:        xMin,
		XMax:        xMax,
	}
}

// At evaluates the trend line at x.
func (t TrendLine) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}
