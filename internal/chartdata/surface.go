package chartdata

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/pasture.report/internal/pasture"
)

// Grid is a regular grid of values. Values[r][c] sits at (Xs[c], Ys[r]).
// Its Dims/Z/X/Y methods match gonum/plot's plotter.GridXYZ.
type Grid struct {
	Xs     []float64   `json:"x"`
	Ys     []float64   `json:"y"`
	Values [][]float64 `json:"values"`
}

// Dims returns the number of columns and rows.
func (g Grid) Dims() (c, r int) { return len(g.Xs), len(g.Ys) }

// Z returns the value at column c, row r.
func (g Grid) Z(c, r int) float64 { return g.Values[r][c] }

// X returns the coordinate of column c.
func (g Grid) X(c int) float64 { return g.Xs[c] }

// Y returns the coordinate of row r.
func (g Grid) Y(r int) float64 { return g.Ys[r] }

// Range returns the smallest and largest value in the grid.
// An empty grid yields (0, 0).
func (g Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Values {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// Finite reports whether every value in the grid is a finite number.
func (g Grid) Finite() bool {
	for _, row := range g.Values {
		for _, v := range row {
			if !pasture.IsFinite(v) {
				return false
			}
		}
	}
	return true
}

// SurfaceGrid holds biomass and protein evaluated over NDVI × compression.
type SurfaceGrid struct {
	NDVI        []float64   `json:"ndvi"`
	Compression []float64   `json:"compression"`
	Biomass     [][]float64 `json:"biomass"`
	Protein     [][]float64 `json:"protein"`
	ZMax        float64     `json:"z_max"`
}

// PrepareSurface evaluates both estimates over nNDVI samples of NDVI in [0, 1]
// crossed with nComp samples of compression in [0.5, 8] cm. Rows follow
// compression and columns follow NDVI.
func PrepareSurface(c pasture.Coefficients, nNDVI, nComp int) *SurfaceGrid {
	ndvi := Linspace(SurfaceNDVIMin, SurfaceNDVIMax, nNDVI)
	comp := Linspace(SurfaceCompressionMin, SurfaceCompressionMax, nComp)

	g := &SurfaceGrid{
		NDVI:        ndvi,
		Compression: comp,
		Biomass:     make([][]float64, len(comp)),
		Protein:     make([][]float64, len(comp)),
		ZMax:        SurfaceZMax,
	}
	for r, cm := range comp {
		bio := make([]float64, len(ndvi))
		prot := make([]float64, len(ndvi))
		for col, v := range ndvi {
			bio[col] = pasture.Biomass(v, cm, c)
			prot[col] = pasture.Protein(v, c)
		}
		g.Biomass[r] = bio
		g.Protein[r] = prot
	}
	return g
}

// BiomassGrid exposes the biomass surface as a Grid.
func (s *SurfaceGrid) BiomassGrid() Grid {
	return Grid{Xs: s.NDVI, Ys: s.Compression, Values: s.Biomass}
}

// ProteinGrid exposes the protein surface as a Grid.
func (s *SurfaceGrid) ProteinGrid() Grid {
	return Grid{Xs: s.NDVI, Ys: s.Compression, Values: s.Protein}
}

// Finite reports whether both surfaces hold only finite values.
func (s *SurfaceGrid) Finite() bool {
	return s.BiomassGrid().Finite() && s.ProteinGrid().Finite()
}
