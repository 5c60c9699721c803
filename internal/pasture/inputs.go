package pasture

import "math"

// Slider bounds and defaults.
const (
	MinWeightKgf     = 0.5
	MaxWeightKgf     = 3.0
	WeightStepKgf    = 0.1
	DefaultWeightKgf = 1.5

	MinNDVI     = 0.2
	MaxNDVI     = 0.9
	NDVIStep    = 0.01
	DefaultNDVI = 0.65

	DefaultStiffness = StiffnessVeryYoung
)

// Default coefficients, calibrated from Calvão & Palmeirim (2004) for biomass
// and Garroutte et al. (2016) for crude protein.
const (
	DefaultCoefA = 6000.0
	DefaultCoefB = 150.0
	DefaultCoefC = 500.0
	DefaultCoefD = 8.0
	DefaultCoefE = 4.0
)

// Inputs holds the three user-adjustable scalars of one render pass.
type Inputs struct {
	WeightKgf       float64 `json:"weight_kgf"`
	StiffnessNPerCm float64 `json:"stiffness_n_per_cm"`
	NDVI            float64 `json:"ndvi"`
}

// Coefficients of the biomass (a, b, c) and protein (d, e) models.
// They are deliberately unbounded.
type Coefficients struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
}

// DefaultInputs returns the initial slider and select positions.
func DefaultInputs() Inputs {
	return Inputs{
		WeightKgf:       DefaultWeightKgf,
		StiffnessNPerCm: DefaultStiffness,
		NDVI:            DefaultNDVI,
	}
}

// DefaultCoefficients returns the literature-calibrated coefficients.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		A: DefaultCoefA,
		B: DefaultCoefB,
		C: DefaultCoefC,
		D: DefaultCoefD,
		E: DefaultCoefE,
	}
}

// ClampWeight limits a plate weight to the slider range.
func ClampWeight(w float64) float64 {
	return clamp(w, MinWeightKgf, MaxWeightKgf)
}

// ClampNDVI limits an NDVI reading to the slider range.
func ClampNDVI(n float64) float64 {
	return clamp(n, MinNDVI, MaxNDVI)
}

// Clamped returns a copy with weight and NDVI clamped to their slider ranges.
// Stiffness is left untouched; it is checked against the category set instead.
func (in Inputs) Clamped() Inputs {
	in.WeightKgf = ClampWeight(in.WeightKgf)
	in.NDVI = ClampNDVI(in.NDVI)
	return in
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
