// Package plotting renders the calculator charts as static PNG images with
// gonum/plot, for export and for clients that cannot run JavaScript.
package plotting

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pasture.report/internal/chartdata"
	"github.com/banshee-data/pasture.report/internal/fsutil"
	"github.com/banshee-data/pasture.report/internal/pasture"
)

// Output file names written by RenderAll.
const (
	CompressionFile    = "compression.png"
	BiomassHeatmapFile = "biomass_heatmap.png"
	ProteinHeatmapFile = "protein_heatmap.png"
)

// Image sizes.
var (
	LineWidth   = 10 * vg.Inch
	LineHeight  = 6 * vg.Inch
	HeatmapSize = 7 * vg.Inch
)

const paletteSteps = 64

// CompressionPlot builds the compression-versus-weight line plot.
func CompressionPlot(data *chartdata.LineChartData) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = data.XLabel
	p.Y.Label.Text = data.YLabel
	p.X.Min, p.X.Max = data.XMin, data.XMax

	colors := generateColors(len(data.Series))
	for i, s := range data.Series {
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", s.Name, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	return p, nil
}

// HeatmapPlot builds a heatmap of g with NDVI on X and compression on Y.
func HeatmapPlot(title, unit string, g chartdata.Grid) (*plot.Plot, error) {
	cols, rows := g.Dims()
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("empty grid for %s", title)
	}
	// gonum's palette index is undefined for NaN or infinite bounds.
	if !g.Finite() {
		return nil, fmt.Errorf("%s: %w", title, pasture.ErrOverflow)
	}

	hm := plotter.NewHeatMap(g, palette.Heat(paletteSteps, 1))
	// A flat surface (d = 0, say) has no spread to map onto the palette.
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s, %.0f to %.0f)", title, unit, hm.Min, hm.Max)
	p.X.Label.Text = "NDVI"
	p.Y.Label.Text = "Compression (cm)"
	p.Add(hm)

	return p, nil
}

// WriteCompressionPNG renders the compression chart for the fixed categories.
func WriteCompressionPNG(w io.Writer) error {
	p, err := CompressionPlot(chartdata.PrepareCompressionSeries(chartdata.CompressionSamples))
	if err != nil {
		return err
	}
	return writePNG(w, p, LineWidth, LineHeight)
}

// WriteBiomassPNG renders the biomass heatmap for the given coefficients.
func WriteBiomassPNG(w io.Writer, c pasture.Coefficients) error {
	g := chartdata.PrepareSurface(c, chartdata.SurfaceNDVISamples, chartdata.SurfaceCompressionSamples)
	p, err := HeatmapPlot("Estimated dry biomass", "kg MS/ha", g.BiomassGrid())
	if err != nil {
		return err
	}
	return writePNG(w, p, HeatmapSize, HeatmapSize)
}

// WriteProteinPNG renders the crude protein heatmap for the given coefficients.
func WriteProteinPNG(w io.Writer, c pasture.Coefficients) error {
	g := chartdata.PrepareSurface(c, chartdata.SurfaceNDVISamples, chartdata.SurfaceCompressionSamples)
	p, err := HeatmapPlot("Estimated crude protein", "%", g.ProteinGrid())
	if err != nil {
		return err
	}
	return writePNG(w, p, HeatmapSize, HeatmapSize)
}

// RenderAll writes the three PNGs into outputDir on fsys and returns their
// paths.
func RenderAll(fsys fsutil.FileSystem, outputDir string, c pasture.Coefficients) ([]string, error) {
	if err := fsys.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{CompressionFile, WriteCompressionPNG},
		{BiomassHeatmapFile, func(w io.Writer) error { return WriteBiomassPNG(w, c) }},
		{ProteinHeatmapFile, func(w io.Writer) error { return WriteProteinPNG(w, c) }},
	}

	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		var buf bytes.Buffer
		if err := job.render(&buf); err != nil {
			return written, fmt.Errorf("failed to render %s: %w", job.name, err)
		}
		path := filepath.Join(outputDir, job.name)
		if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors for category lines
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
