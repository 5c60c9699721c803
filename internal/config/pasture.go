package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/pasture.report/internal/pasture"
)

// DefaultConfigPath is the path to the canonical calculator defaults file.
const DefaultConfigPath = "config/pasture.defaults.json"

// Chart layouts.
const (
	LayoutSurface = "surface"
	LayoutSplit   = "split"
)

// DefaultRecentScenarios is how many saved scenarios the index page lists.
const DefaultRecentScenarios = 10

// PastureConfig holds the starting values shown on the calculator form.
// Fields left out of the JSON file fall back to the built-in defaults.
type PastureConfig struct {
	WeightKgf       *float64 `json:"weight_kgf,omitempty"`
	StiffnessNPerCm *float64 `json:"stiffness_n_per_cm,omitempty"`
	NDVI            *float64 `json:"ndvi,omitempty"`

	// Estimation coefficients
	CoefA *float64 `json:"coef_a,omitempty"`
	CoefB *float64 `json:"coef_b,omitempty"`
	CoefC *float64 `json:"coef_c,omitempty"`
	CoefD *float64 `json:"coef_d,omitempty"`
	CoefE *float64 `json:"coef_e,omitempty"`

	Layout          *string `json:"layout,omitempty"`
	RecentScenarios *int    `json:"recent_scenarios,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyPastureConfig returns a PastureConfig with all fields set to nil.
func EmptyPastureConfig() *PastureConfig {
	return &PastureConfig{}
}

// DefaultPastureConfig returns a config with every field set to the built-in default.
func DefaultPastureConfig() *PastureConfig {
	in := pasture.DefaultInputs()
	c := pasture.DefaultCoefficients()
	return &PastureConfig{
		WeightKgf:       ptrFloat64(in.WeightKgf),
		StiffnessNPerCm: ptrFloat64(in.StiffnessNPerCm),
		NDVI:            ptrFloat64(in.NDVI),
		CoefA:           ptrFloat64(c.A),
		CoefB:           ptrFloat64(c.B),
		CoefC:           ptrFloat64(c.C),
		CoefD:           ptrFloat64(c.D),
		CoefE:           ptrFloat64(c.E),
		Layout:          ptrString(LayoutSurface),
		RecentScenarios: ptrInt(DefaultRecentScenarios),
	}
}

// LoadPastureConfig loads a PastureConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadPastureConfig(path string) (*PastureConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPastureConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *PastureConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/render-plots/
	}
	for _, path := range candidates {
		if cfg, err := LoadPastureConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured starting values are usable by the form.
// Coefficients are free-form but must be finite.
func (c *PastureConfig) Validate() error {
	if c.WeightKgf != nil {
		if w := *c.WeightKgf; w < pasture.MinWeightKgf || w > pasture.MaxWeightKgf {
			return fmt.Errorf("weight_kgf must be between %g and %g, got %g", pasture.MinWeightKgf, pasture.MaxWeightKgf, w)
		}
	}
	if c.NDVI != nil {
		if n := *c.NDVI; n < pasture.MinNDVI || n > pasture.MaxNDVI {
			return fmt.Errorf("ndvi must be between %g and %g, got %g", pasture.MinNDVI, pasture.MaxNDVI, n)
		}
	}
	if c.StiffnessNPerCm != nil && !pasture.IsValidStiffness(*c.StiffnessNPerCm) {
		return fmt.Errorf("stiffness_n_per_cm %g is not a known pasture category", *c.StiffnessNPerCm)
	}

	coefs := []struct {
		name string
		v    *float64
	}{
		{"coef_a", c.CoefA}, {"coef_b", c.CoefB}, {"coef_c", c.CoefC},
		{"coef_d", c.CoefD}, {"coef_e", c.CoefE},
	}
	for _, f := range coefs {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return fmt.Errorf("%s must be finite", f.name)
		}
	}

	if c.Layout != nil && !IsValidLayout(*c.Layout) {
		return fmt.Errorf("layout must be %q or %q, got %q", LayoutSurface, LayoutSplit, *c.Layout)
	}
	if c.RecentScenarios != nil && *c.RecentScenarios < 0 {
		return fmt.Errorf("recent_scenarios must be non-negative, got %d", *c.RecentScenarios)
	}

	return nil
}

// IsValidLayout reports whether s names a supported chart layout.
func IsValidLayout(s string) bool {
	return s == LayoutSurface || s == LayoutSplit
}

// GetInputs returns the starting form inputs, filling gaps with defaults.
func (c *PastureConfig) GetInputs() pasture.Inputs {
	in := pasture.DefaultInputs()
	if c.WeightKgf != nil {
		in.WeightKgf = *c.WeightKgf
	}
	if c.StiffnessNPerCm != nil {
		in.StiffnessNPerCm = *c.StiffnessNPerCm
	}
	if c.NDVI != nil {
		in.NDVI = *c.NDVI
	}
	return in
}

// GetCoefficients returns the starting coefficients, filling gaps with defaults.
func (c *PastureConfig) GetCoefficients() pasture.Coefficients {
	out := pasture.DefaultCoefficients()
	if c.CoefA != nil {
		out.A = *c.CoefA
	}
	if c.CoefB != nil {
		out.B = *c.CoefB
	}
	if c.CoefC != nil {
		out.C = *c.CoefC
	}
	if c.CoefD != nil {
		out.D = *c.CoefD
	}
	if c.CoefE != nil {
		out.E = *c.CoefE
	}
	return out
}

// GetLayout returns the configured layout or LayoutSurface.
func (c *PastureConfig) GetLayout() string {
	if c.Layout == nil || *c.Layout == "" {
		return LayoutSurface
	}
	return *c.Layout
}

// GetRecentScenarios returns how many saved scenarios to list on the index page.
func (c *PastureConfig) GetRecentScenarios() int {
	if c.RecentScenarios == nil {
		return DefaultRecentScenarios
	}
	return *c.RecentScenarios
}
