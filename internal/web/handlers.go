package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/banshee-data/pasture.report/internal/config"
	"github.com/banshee-data/pasture.report/internal/db"
	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/units"
	"github.com/banshee-data/pasture.report/internal/version"
)

const indexTemplate = "index.html"

var templateFuncs = template.FuncMap{
	"compression": units.FormatCompression,
	"biomass":     units.FormatBiomass,
	"protein":     units.FormatProtein,
	"unixTime": func(sec int64) string {
		return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04")
	},
}

// formattedResult is the metric text shown on the page.
type formattedResult struct {
	Compression string `json:"compression"`
	Biomass     string `json:"biomass"`
	Protein     string `json:"protein"`
}

func formatResult(r pasture.Result) formattedResult {
	return formattedResult{
		Compression: units.WithUnit(units.FormatCompression(r.CompressionCm), units.Cm),
		Biomass:     units.WithUnit(units.FormatBiomass(r.BiomassKgHa), units.KgMSPerHa),
		Protein:     units.WithUnit(units.FormatProtein(r.ProteinPct), units.Percent),
	}
}

type stiffnessOption struct {
	Label    string
	Value    string
	Selected bool
}

type chartFrame struct {
	Title  string
	Src    template.URL
	Height int
}

type scenarioRow struct {
	*db.Scenario
	Link template.URL
}

type indexPage struct {
	Inputs       pasture.Inputs
	Coefficients pasture.Coefficients
	Layout       string
	Result       pasture.Result
	Formatted    formattedResult
	Stiffness    []stiffnessOption
	Charts       []chartFrame
	Plots        []chartFrame
	Overflow     bool
	StoreEnabled bool
	Scenarios    []scenarioRow
	StoreError   string
	Version      string

	MinWeight, MaxWeight, WeightStep float64
	MinNDVI, MaxNDVI, NDVIStep       float64
}

// handleHealth handles the health check endpoint
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "pasture", "version": %q, "timestamp": "%s"}`,
		version.Version, time.Now().UTC().Format(time.RFC3339))
}

// handleIndex renders the calculator page. Every change on the form
// resubmits it, so each request recomputes everything from the query.
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.MethodNotAllowed(w)
		return
	}

	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := pasture.Estimate(p.Inputs, p.Coefficients)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws.metrics.ObserveEstimate("index")

	page := indexPage{
		Inputs:       p.Inputs,
		Coefficients: p.Coefficients,
		Layout:       p.Layout,
		Result:       result,
		Formatted:    formatResult(result),
		Overflow:     !result.Finite(),
		Stiffness:    stiffnessOptions(p.Inputs.StiffnessNPerCm),
		Charts:       chartFrames(p),
		Plots:        plotLinks(p),
		StoreEnabled: ws.store != nil,
		Version:      version.String(),
		MinWeight:    pasture.MinWeightKgf,
		MaxWeight:    pasture.MaxWeightKgf,
		WeightStep:   pasture.WeightStepKgf,
		MinNDVI:      pasture.MinNDVI,
		MaxNDVI:      pasture.MaxNDVI,
		NDVIStep:     pasture.NDVIStep,
	}

	if n := ws.config.GetRecentScenarios(); ws.store != nil && n > 0 {
		scenarios, err := ws.store.ListScenarios(n)
		ws.metrics.ObserveScenario("list", err)
		if err != nil {
			// The calculator still works without the log.
			logf("failed to list scenarios: %v", err)
			page.StoreError = "Saved scenarios are unavailable."
		}
		for _, s := range scenarios {
			page.Scenarios = append(page.Scenarios, scenarioRow{Scenario: s, Link: scenarioLink(s, p.Layout)})
		}
	}

	var buf bytes.Buffer
	if err := ws.templates.ExecuteTemplate(&buf, indexTemplate, page); err != nil {
		http.Error(w, "Error executing template: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func stiffnessOptions(selected float64) []stiffnessOption {
	cats := pasture.StiffnessCategories()
	out := make([]stiffnessOption, len(cats))
	for i, c := range cats {
		out[i] = stiffnessOption{
			Label:    c.OptionLabel(),
			Value:    formatFloat(c.Value),
			Selected: c.Value == selected,
		}
	}
	return out
}

func chartFrames(p calcParams) []chartFrame {
	q := p.Query().Encode()
	frames := []chartFrame{
		{Title: "Compression vs weight by pasture type", Src: template.URL("/charts/compression?" + q), Height: 520},
	}
	if p.Layout == config.LayoutSplit {
		return append(frames,
			chartFrame{Title: "Biomass vs NDVI", Src: template.URL("/charts/biomass?" + q), Height: 520},
			chartFrame{Title: "Crude protein vs NDVI", Src: template.URL("/charts/protein?" + q), Height: 520},
		)
	}
	return append(frames,
		chartFrame{Title: "Biomass and protein by NDVI and compression", Src: template.URL("/charts/surface?" + q), Height: 640},
	)
}

func plotLinks(p calcParams) []chartFrame {
	q := p.Query().Encode()
	return []chartFrame{
		{Title: "compression.png", Src: template.URL("/plots/compression.png?" + q)},
		{Title: "biomass.png", Src: template.URL("/plots/biomass.png?" + q)},
		{Title: "protein.png", Src: template.URL("/plots/protein.png?" + q)},
	}
}

func scenarioLink(s *db.Scenario, layout string) template.URL {
	p := calcParams{Inputs: s.Inputs, Coefficients: s.Coefficients, Layout: layout}
	return template.URL("/?" + p.Query().Encode())
}

type estimateResponse struct {
	Inputs       pasture.Inputs       `json:"inputs"`
	Coefficients pasture.Coefficients `json:"coefficients"`
	Category     string               `json:"category"`
	Result       pasture.Result       `json:"result"`
	Formatted    formattedResult      `json:"formatted"`
}

// overflowed answers 400 for coefficients whose estimates left the float64
// range.
func overflowed(w http.ResponseWriter) {
	httputil.BadRequest(w, pasture.ErrOverflow.Error())
}

// handleEstimate returns the three estimates for the query parameters.
func (ws *WebServer) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	result, err := pasture.Estimate(p.Inputs, p.Coefficients)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if !result.Finite() {
		overflowed(w)
		return
	}
	ws.metrics.ObserveEstimate("api")

	cat, _ := pasture.LookupStiffness(p.Inputs.StiffnessNPerCm)
	httputil.WriteJSONOK(w, estimateResponse{
		Inputs:       p.Inputs,
		Coefficients: p.Coefficients,
		Category:     cat.Name,
		Result:       result,
		Formatted:    formatResult(result),
	})
}

// handleStiffness lists the pasture categories in display order.
func (ws *WebServer) handleStiffness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, pasture.StiffnessCategories())
}

type configResponse struct {
	Inputs          pasture.Inputs       `json:"inputs"`
	Coefficients    pasture.Coefficients `json:"coefficients"`
	Layout          string               `json:"layout"`
	RecentScenarios int                  `json:"recent_scenarios"`
	ScenarioLog     bool                 `json:"scenario_log"`
}

// handleConfig returns the active form defaults.
func (ws *WebServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, configResponse{
		Inputs:          ws.config.GetInputs(),
		Coefficients:    ws.config.GetCoefficients(),
		Layout:          ws.config.GetLayout(),
		RecentScenarios: ws.config.GetRecentScenarios(),
		ScenarioLog:     ws.store != nil,
	})
}
