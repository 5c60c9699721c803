package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/banshee-data/pasture.report/internal/config"
	"github.com/banshee-data/pasture.report/internal/pasture"
)

// Query parameter names shared by the page, the chart endpoints and the API.
const (
	paramWeight    = "weight"
	paramStiffness = "stiffness"
	paramNDVI      = "ndvi"
	paramLayout    = "layout"
)

var coefficientParams = []string{"a", "b", "c", "d", "e"}

// calcParams is one fully parsed calculator request.
type calcParams struct {
	Inputs       pasture.Inputs
	Coefficients pasture.Coefficients
	Layout       string
}

// defaultParams returns the starting form state from the loaded config.
func defaultParams(cfg *config.PastureConfig) calcParams {
	return calcParams{
		Inputs:       cfg.GetInputs(),
		Coefficients: cfg.GetCoefficients(),
		Layout:       cfg.GetLayout(),
	}
}

// parseParams reads calculator parameters from values, falling back to the
// configured defaults for anything absent. Weight and NDVI are clamped to
// their slider ranges; unparsable numbers, non-finite values, unknown
// stiffness and unknown layouts are errors.
func parseParams(values url.Values, cfg *config.PastureConfig) (calcParams, error) {
	p := defaultParams(cfg)

	var err error
	if p.Inputs.WeightKgf, err = floatParam(values, paramWeight, p.Inputs.WeightKgf); err != nil {
		return calcParams{}, err
	}
	if p.Inputs.StiffnessNPerCm, err = floatParam(values, paramStiffness, p.Inputs.StiffnessNPerCm); err != nil {
		return calcParams{}, err
	}
	if p.Inputs.NDVI, err = floatParam(values, paramNDVI, p.Inputs.NDVI); err != nil {
		return calcParams{}, err
	}

	coefs := []*float64{&p.Coefficients.A, &p.Coefficients.B, &p.Coefficients.C, &p.Coefficients.D, &p.Coefficients.E}
	for i, name := range coefficientParams {
		if *coefs[i], err = floatParam(values, name, *coefs[i]); err != nil {
			return calcParams{}, err
		}
	}

	if s := values.Get(paramLayout); s != "" {
		p.Layout = s
	}

	if err := p.normalize(); err != nil {
		return calcParams{}, err
	}
	return p, nil
}

// normalize applies the slider clamps and checks the values no clamp can fix.
func (p *calcParams) normalize() error {
	if !pasture.IsValidStiffness(p.Inputs.StiffnessNPerCm) {
		return fmt.Errorf("unknown stiffness %g N/cm", p.Inputs.StiffnessNPerCm)
	}
	for _, v := range []float64{
		p.Inputs.WeightKgf, p.Inputs.NDVI,
		p.Coefficients.A, p.Coefficients.B, p.Coefficients.C, p.Coefficients.D, p.Coefficients.E,
	} {
		if !pasture.IsFinite(v) {
			return errors.New("inputs and coefficients must be finite numbers")
		}
	}
	if !config.IsValidLayout(p.Layout) {
		return fmt.Errorf("unknown layout %q", p.Layout)
	}
	p.Inputs = p.Inputs.Clamped()
	return nil
}

// Query encodes p back into the canonical query string form.
func (p calcParams) Query() url.Values {
	q := url.Values{}
	q.Set(paramWeight, formatFloat(p.Inputs.WeightKgf))
	q.Set(paramStiffness, formatFloat(p.Inputs.StiffnessNPerCm))
	q.Set(paramNDVI, formatFloat(p.Inputs.NDVI))
	coefs := []float64{p.Coefficients.A, p.Coefficients.B, p.Coefficients.C, p.Coefficients.D, p.Coefficients.E}
	for i, name := range coefficientParams {
		q.Set(name, formatFloat(coefs[i]))
	}
	q.Set(paramLayout, p.Layout)
	return q
}

func floatParam(values url.Values, name string, def float64) (float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseLimit reads an optional positive integer limit, returning def when absent.
func parseLimit(values url.Values, def int) (int, error) {
	raw := values.Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit: %q", raw)
	}
	return n, nil
}

// Upper bounds for the samples query parameter.
const (
	maxLineSamples    = 1000
	maxSurfaceSamples = 200
)

// parseSamples reads the optional samples parameter. At least two samples
// are needed to span a range.
func parseSamples(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("samples")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 2 || n > max {
		return 0, fmt.Errorf("invalid samples: %q (want 2 to %d)", raw, max)
	}
	return n, nil
}
