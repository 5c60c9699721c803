package web

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/banshee-data/pasture.report/internal/chartdata"
	"github.com/banshee-data/pasture.report/internal/httputil"
)

// Surface colours: biomass green, protein blue.
const (
	biomassColor = "#2e7d32"
	proteinColor = "#1565c0"
)

type renderer interface {
	Render(w io.Writer) error
}

// writeChart renders a chart into a buffer so a failure can still be
// reported as a JSON error.
func (ws *WebServer) writeChart(w http.ResponseWriter, name string, chart renderer) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		httputil.InternalServerError(w, "failed to render chart")
		return
	}
	ws.metrics.ObserveChart(name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// newLineChart turns prepared series into a go-echarts line chart on value axes.
func newLineChart(data *chartdata.LineChartData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: data.Title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: data.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: data.XLabel, NameLocation: "middle", NameGap: 30, Min: data.XMin, Max: data.XMax}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: data.YLabel, NameLocation: "middle", NameGap: 50}),
	)

	for _, s := range data.Series {
		points := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			points[i] = opts.LineData{Value: []interface{}{p.X, p.Y}}
		}
		line.AddSeries(s.Name, points,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}

// surfaceData flattens a grid row by row, which is the order echarts-gl
// expects for a surface series.
func surfaceData(g chartdata.Grid) []opts.Chart3DData {
	cols, rows := g.Dims()
	out := make([]opts.Chart3DData, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, opts.Chart3DData{Value: []interface{}{g.X(c), g.Y(r), g.Z(c, r)}})
		}
	}
	return out
}

// asSurface fixes the series type: Surface3D.AddSeries tags series as scatter3D.
func asSurface(color string) charts.SeriesOpts {
	return charts.WithSeriesOpts(func(s *charts.SingleSeries) {
		s.Type = types.ChartSurface3D
		s.ItemStyle = &opts.ItemStyle{Color: color}
	})
}

// newSurfaceChart draws biomass and protein as two surfaces over
// NDVI × compression on a shared z axis.
func newSurfaceChart(g *chartdata.SurfaceGrid) *charts.Surface3D {
	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Biomass and protein surfaces", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Biomass and protein surfaces by NDVI and compression"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Show: opts.Bool(true), Name: "NDVI", Type: "value", Min: chartdata.SurfaceNDVIMin, Max: chartdata.SurfaceNDVIMax}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Show: opts.Bool(true), Name: "Compression (cm)", Type: "value", Min: chartdata.SurfaceCompressionMin, Max: chartdata.SurfaceCompressionMax}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Show: opts.Bool(true), Name: "Estimated value", Type: "value", Min: 0, Max: g.ZMax}),
		charts.WithGrid3DOpts(opts.Grid3D{Show: opts.Bool(true), BoxWidth: 100, BoxDepth: 100, BoxHeight: 80}),
	)
	surface.AddSeries("Biomass (kg MS/ha)", surfaceData(g.BiomassGrid()), asSurface(biomassColor))
	surface.AddSeries("Crude protein (%)", surfaceData(g.ProteinGrid()), asSurface(proteinColor))
	return surface
}

// handleCompressionChart renders compression against plate weight for every
// pasture type. The curves do not depend on the form, but the usual query
// parameters are still validated so a bad link fails the same way everywhere.
func (ws *WebServer) handleCompressionChart(w http.ResponseWriter, r *http.Request) {
	if _, err := parseParams(r.URL.Query(), ws.config); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	data := chartdata.PrepareCompressionSeries(chartdata.CompressionSamples)
	ws.writeChart(w, "compression", newLineChart(data))
}

// handleSurfaceChart renders the biomass and protein surfaces for the
// coefficients in the query.
func (ws *WebServer) handleSurfaceChart(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	grid := chartdata.PrepareSurface(p.Coefficients, chartdata.SurfaceNDVISamples, chartdata.SurfaceCompressionSamples)
	if !grid.Finite() {
		overflowed(w)
		return
	}
	ws.writeChart(w, "surface", newSurfaceChart(grid))
}

func (ws *WebServer) handleBiomassChart(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	data := chartdata.PrepareNDVILines(p.Coefficients, p.Inputs.WeightKgf, chartdata.NDVILineSamples)
	if !data.Biomass.Finite() {
		overflowed(w)
		return
	}
	ws.writeChart(w, "biomass", newLineChart(&data.Biomass))
}

func (ws *WebServer) handleProteinChart(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	data := chartdata.PrepareNDVILines(p.Coefficients, p.Inputs.WeightKgf, chartdata.NDVILineSamples)
	if !data.Protein.Finite() {
		overflowed(w)
		return
	}
	ws.writeChart(w, "protein", newLineChart(&data.Protein))
}
