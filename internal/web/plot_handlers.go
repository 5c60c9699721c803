package web

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/plotting"
)

func (ws *WebServer) handleCompressionPNG(w http.ResponseWriter, r *http.Request) {
	ws.servePNG(w, r, "compression_png", func(out io.Writer, _ pasture.Coefficients) error {
		return plotting.WriteCompressionPNG(out)
	})
}

func (ws *WebServer) handleBiomassPNG(w http.ResponseWriter, r *http.Request) {
	ws.servePNG(w, r, "biomass_png", plotting.WriteBiomassPNG)
}

func (ws *WebServer) handleProteinPNG(w http.ResponseWriter, r *http.Request) {
	ws.servePNG(w, r, "protein_png", plotting.WriteProteinPNG)
}

// servePNG parses the query, draws into memory and only then writes headers,
// so a plotting failure still produces a clean error response.
func (ws *WebServer) servePNG(w http.ResponseWriter, r *http.Request, name string, draw func(io.Writer, pasture.Coefficients) error) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	p, err := parseParams(r.URL.Query(), ws.config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, p.Coefficients); err != nil {
		if errors.Is(err, pasture.ErrOverflow) {
			overflowed(w)
			return
		}
		logf("failed to render %s: %v", name, err)
		httputil.InternalServerError(w, "failed to render plot")
		return
	}
	ws.metrics.ObserveChart(name)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
