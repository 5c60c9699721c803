// Package chartdata prepares the sampled series and grids behind every chart.
// It is kept separate from rendering so the same data feeds the HTML charts,
// the PNG exports and the JSON API.
package chartdata

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/pasture.report/internal/pasture"
)

// Sampling constants.
const (
	CompressionSamples = 100

	SurfaceNDVISamples        = 50
	SurfaceCompressionSamples = 50
	SurfaceNDVIMin            = 0.0
	SurfaceNDVIMax            = 1.0
	SurfaceCompressionMin     = 0.5
	SurfaceCompressionMax     = 8.0
	SurfaceZMax               = 8000.0

	NDVILineSamples = 50
)

// Point is a single XY sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a named line.
type Series struct {
	Name      string  `json:"name"`
	Stiffness float64 `json:"stiffness,omitempty"`
	Points    []Point `json:"points"`
}

// LineChartData holds everything needed to draw one line chart.
type LineChartData struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	XMin   float64  `json:"x_min"`
	XMax   float64  `json:"x_max"`
	Series []Series `json:"series"`
}

// Linspace returns n evenly spaced samples over [lo, hi], endpoints included.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	// Span accumulates lo+step*i; pin the endpoint so it is exact.
	out[n-1] = hi
	return out
}

// PrepareCompressionSeries samples compression against plate weight for every
// stiffness category, n weights per series over the slider range.
func PrepareCompressionSeries(n int) *LineChartData {
	weights := Linspace(pasture.MinWeightKgf, pasture.MaxWeightKgf, n)
	cats := pasture.StiffnessCategories()

	data := &LineChartData{
		Title:  "Estimated compression by pasture type",
		XLabel: "Weight (kgf)",
		YLabel: "Compression (cm)",
		XMin:   pasture.MinWeightKgf,
		XMax:   pasture.MaxWeightKgf,
		Series: make([]Series, 0, len(cats)),
	}

	for _, cat := range cats {
		pts := make([]Point, len(weights))
		for i, w := range weights {
			pts[i] = Point{X: w, Y: pasture.Compression(w, cat.Value)}
		}
		data.Series = append(data.Series, Series{
			Name:      cat.SeriesLabel(),
			Stiffness: cat.Value,
			Points:    pts,
		})
	}
	return data
}

// NDVIChartData is the two-chart alternative to the surfaces: biomass and
// protein plotted against NDVI.
type NDVIChartData struct {
	WeightKgf float64       `json:"weight_kgf"`
	Biomass   LineChartData `json:"biomass"`
	Protein   LineChartData `json:"protein"`
}

// PrepareNDVILines samples biomass against NDVI over [0, 1] at the compression
// each stiffness category gives for weightKgf, and protein against NDVI.
func PrepareNDVILines(c pasture.Coefficients, weightKgf float64, n int) *NDVIChartData {
	ndvi := Linspace(SurfaceNDVIMin, SurfaceNDVIMax, n)
	cats := pasture.StiffnessCategories()

	out := &NDVIChartData{
		WeightKgf: weightKgf,
		Biomass: LineChartData{
			Title:  "Dry biomass by NDVI",
			XLabel: "NDVI",
			YLabel: "Biomass (kg MS/ha)",
			XMin:   SurfaceNDVIMin,
			XMax:   SurfaceNDVIMax,
			Series: make([]Series, 0, len(cats)),
		},
		Protein: LineChartData{
			Title:  "Crude protein by NDVI",
			XLabel: "NDVI",
			YLabel: "Crude protein (%)",
			XMin:   SurfaceNDVIMin,
			XMax:   SurfaceNDVIMax,
		},
	}

	for _, cat := range cats {
		comp := pasture.Compression(weightKgf, cat.Value)
		pts := make([]Point, len(ndvi))
		for i, v := range ndvi {
			pts[i] = Point{X: v, Y: pasture.Biomass(v, comp, c)}
		}
		out.Biomass.Series = append(out.Biomass.Series, Series{
			Name:      cat.SeriesLabel(),
			Stiffness: cat.Value,
			Points:    pts,
		})
	}

	protein := make([]Point, len(ndvi))
	for i, v := range ndvi {
		protein[i] = Point{X: v, Y: pasture.Protein(v, c)}
	}
	out.Protein.Series = []Series{{Name: "Crude protein", Points: protein}}

	return out
}

// Finite reports whether every point of every series is finite.
func (d *LineChartData) Finite() bool {
	for _, s := range d.Series {
		for _, p := range s.Points {
			if !pasture.IsFinite(p.X) || !pasture.IsFinite(p.Y) {
				return false
			}
		}
	}
	return true
}

// Finite reports whether both the biomass and protein lines are finite.
func (d *NDVIChartData) Finite() bool {
	return d.Biomass.Finite() && d.Protein.Finite()
}
