// Package pasture implements the plate-meter compression model and the
// NDVI-based biomass and crude protein estimates derived from it.
package pasture

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/pasture.report/internal/units"
)

// ErrInvalidStiffness is returned when the stiffness would divide by zero
// or is otherwise not a positive number.
var ErrInvalidStiffness = errors.New("stiffness must be a positive number")

// ErrOverflow reports estimates that left the float64 range. Coefficients
// are unbounded, so large enough ones overflow to ±Inf or NaN; such values
// cannot be stored, encoded or plotted.
var ErrOverflow = errors.New("coefficients overflow the estimate")

// Result holds the three estimates of one render pass.
type Result struct {
	CompressionCm float64 `json:"compression_cm"`
	BiomassKgHa   float64 `json:"biomass_kg_ha"`
	ProteinPct    float64 `json:"protein_pct"`
}

// Finite reports whether every estimate is a finite number.
func (r Result) Finite() bool {
	return IsFinite(r.CompressionCm) && IsFinite(r.BiomassKgHa) && IsFinite(r.ProteinPct)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Compression returns the vertical displacement (cm) of a sward of the given
// stiffness (N/cm) under a plate of the given weight (kgf).
func Compression(weightKgf, stiffness float64) float64 {
	return units.KgfToNewtons(weightKgf) / stiffness
}

// Biomass returns dry matter in kg MS/ha: a·NDVI + b·compression + c.
func Biomass(ndvi, compressionCm float64, c Coefficients) float64 {
	return c.A*ndvi + c.B*compressionCm + c.C
}

// Protein returns crude protein in percent: d·NDVI + e.
func Protein(ndvi float64, c Coefficients) float64 {
	return c.D*ndvi + c.E
}

// Estimate evaluates all three formulas. Inputs are used as given; callers
// apply slider clamps before calling if they want them.
func Estimate(in Inputs, c Coefficients) (Result, error) {
	if math.IsNaN(in.StiffnessNPerCm) || in.StiffnessNPerCm <= 0 {
		return Result{}, fmt.Errorf("estimate: %w (got %v)", ErrInvalidStiffness, in.StiffnessNPerCm)
	}

	compression := Compression(in.WeightKgf, in.StiffnessNPerCm)
	return Result{
		CompressionCm: compression,
		BiomassKgHa:   Biomass(in.NDVI, compression, c),
		ProteinPct:    Protein(in.NDVI, c),
	}, nil
}
