// Package units provides shared unit labels, conversions and the fixed-decimal
// formatting used when presenting estimates.
package units

import "fmt"

// Unit labels
const (
	Kgf       = "kgf"
	Newton    = "N"
	NPerCm    = "N/cm"
	Cm        = "cm"
	KgMSPerHa = "kg MS/ha"
	Percent   = "%"
)

// StandardGravity is the kgf to newton factor used throughout the model.
const StandardGravity = 9.81

// KgfToNewtons converts a plate weight in kilogram-force to newtons.
func KgfToNewtons(kgf float64) float64 {
	return kgf * StandardGravity
}

// FormatCompression renders a compression in cm with two decimals.
func FormatCompression(cm float64) string {
	return fmt.Sprintf("%.2f", cm)
}

// FormatBiomass renders dry biomass in kg MS/ha with no decimals.
func FormatBiomass(kgHa float64) string {
	return fmt.Sprintf("%.0f", kgHa)
}

// FormatProtein renders crude protein in percent with two decimals.
func FormatProtein(pct float64) string {
	return fmt.Sprintf("%.2f", pct)
}

// WithUnit appends a unit label, e.g. "9.81 cm".
func WithUnit(value, unit string) string {
	if unit == Percent {
		return value + unit
	}
	return value + " " + unit
}
