package pasture

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClampWeight(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.1, MinWeightKgf},
		{0.5, 0.5},
		{1.7, 1.7},
		{3.0, 3.0},
		{12, MaxWeightKgf},
		{math.NaN(), MinWeightKgf},
		{math.Inf(1), MaxWeightKgf},
	}
	for _, tt := range tests {
		if got := ClampWeight(tt.in); got != tt.want {
			t.Errorf("ClampWeight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampNDVI(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.3, MinNDVI},
		{0.2, 0.2},
		{0.65, 0.65},
		{0.95, MaxNDVI},
	}
	for _, tt := range tests {
		if got := ClampNDVI(tt.in); got != tt.want {
			t.Errorf("ClampNDVI(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInputsClamped_LeavesStiffness(t *testing.T) {
	in := Inputs{WeightKgf: 9, StiffnessNPerCm: 0.1, NDVI: 0}
	want := Inputs{WeightKgf: MaxWeightKgf, StiffnessNPerCm: 0.1, NDVI: MinNDVI}
	if diff := cmp.Diff(want, in.Clamped()); diff != "" {
		t.Errorf("Clamped() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	want := Inputs{WeightKgf: 1.5, StiffnessNPerCm: 0.5, NDVI: 0.65}
	if diff := cmp.Diff(want, DefaultInputs()); diff != "" {
		t.Errorf("DefaultInputs() mismatch (-want +got):\n%s", diff)
	}

	wantCoef := Coefficients{A: 6000, B: 150, C: 500, D: 8, E: 4}
	if diff := cmp.Diff(wantCoef, DefaultCoefficients()); diff != "" {
		t.Errorf("DefaultCoefficients() mismatch (-want +got):\n%s", diff)
	}
}

func TestStiffnessCategories(t *testing.T) {
	cats := StiffnessCategories()
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}

	wantValues := []float64{0.5, 0.75, 1.5, 3.0}
	for i, c := range cats {
		if c.Value != wantValues[i] {
			t.Errorf("category %d value = %v, want %v", i, c.Value, wantValues[i])
		}
		if !IsValidStiffness(c.Value) {
			t.Errorf("IsValidStiffness(%v) = false", c.Value)
		}
	}

	// Mutating the returned slice must not leak into the package.
	cats[0].Value = 99
	if got := StiffnessCategories()[0].Value; got != 0.5 {
		t.Errorf("category set was mutated through returned slice: %v", got)
	}
}

func TestLookupStiffness(t *testing.T) {
	c, ok := LookupStiffness(0.75)
	if !ok {
		t.Fatal("LookupStiffness(0.75) not found")
	}
	if c.Name != "young" {
		t.Errorf("name = %q, want young", c.Name)
	}
	if got := c.OptionLabel(); got != "Young pasture (0.75 N/cm)" {
		t.Errorf("OptionLabel() = %q", got)
	}
	if got := c.SeriesLabel(); got != "Young (0.75)" {
		t.Errorf("SeriesLabel() = %q", got)
	}

	for _, v := range []float64{0, 1, 2.9, -0.5} {
		if IsValidStiffness(v) {
			t.Errorf("IsValidStiffness(%v) = true, want false", v)
		}
	}
}
