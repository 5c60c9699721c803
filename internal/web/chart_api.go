package web

import (
	"net/http"

	"github.com/banshee-data/pasture.report/internal/chartdata"
	"github.com/banshee-data/pasture.report/internal/httputil"
)

// JSON chart endpoints return the same prepared data the HTML charts and PNG
// exports draw, so any frontend can plot it.

// handleCompressionJSON returns compression against weight for each pasture type.
// Query params:
//   - samples (optional; default 100, max 1000)
func (ws *WebServer) handleCompressionJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	n, err := parseSamples(r, chartdata.CompressionSamples, maxLineSamples)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, chartdata.PrepareCompressionSeries(n))
}

// handleSurfaceJSON returns the biomass and protein grids for the query's
// coefficients.
// Query params:
//   - a..e (optional; default from config)
//   - samples (optional; default 50 per axis, max 200)
func (ws *WebServer) handleSurfaceJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	n, err := parseSamples(r, chartdata.SurfaceNDVISamples, maxSurfaceSamples)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	grid := chartdata.PrepareSurface(p.Coefficients, n, n)
	if !grid.Finite() {
		overflowed(w)
		return
	}
	httputil.WriteJSONOK(w, grid)
}

// handleNDVIJSON returns biomass and protein against NDVI at the query's weight.
// Query params:
//   - weight, a..e (optional; default from config)
//   - samples (optional; default 50, max 1000)
func (ws *WebServer) handleNDVIJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	n, err := parseSamples(r, chartdata.NDVILineSamples, maxLineSamples)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	data := chartdata.PrepareNDVILines(p.Coefficients, p.Inputs.WeightKgf, n)
	if !data.Finite() {
		overflowed(w)
		return
	}
	httputil.WriteJSONOK(w, data)
}
