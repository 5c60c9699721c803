package web

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pasture.report/internal/chartdata"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/testutil"
)

func TestEchartsHandlers(t *testing.T) {
	ws := newTestServer(nil)

	tests := []struct {
		path  string
		wants []string
	}{
		{"/charts/compression", []string{
			"Estimated compression by pasture type",
			`"type":"line"`,
			"Very young (0.5)",
			"Dense (3)",
			"Weight (kgf)",
		}},
		{"/charts/surface", []string{
			`"type":"surface"`,
			"echarts-gl",
			"Biomass (kg MS/ha)",
			"Crude protein (%)",
			biomassColor,
			proteinColor,
		}},
		{"/charts/biomass", []string{"Dry biomass by NDVI", "Medium (1.5)"}},
		{"/charts/protein", []string{"Crude protein by NDVI", `"name":"Crude protein"`}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(ws, testutil.NewTestRequest(http.MethodGet, tt.path, testutil.ReferenceQuery()))

			testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			for _, want := range tt.wants {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestEchartsHandlers_SurfaceIsNotScatter(t *testing.T) {
	ws := newTestServer(nil)
	rec := serve(ws, testutil.NewTestRequest(http.MethodGet, "/charts/surface", nil))

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.NotContains(t, rec.Body.String(), `"type":"scatter3D"`)
}

func TestEchartsHandlers_BadParams(t *testing.T) {
	ws := newTestServer(nil)
	for _, path := range []string{"/charts/compression", "/charts/surface", "/charts/biomass", "/charts/protein"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(ws, testutil.NewTestRequest(http.MethodGet, path, url.Values{"stiffness": {"9"}}))
			testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
		})
	}
}

func TestSurfaceData(t *testing.T) {
	g := chartdata.PrepareSurface(pasture.DefaultCoefficients(), 3, 2).BiomassGrid()
	data := surfaceData(g)

	require.Len(t, data, 6)
	// Row-major: NDVI varies fastest.
	assert.Equal(t, []interface{}{0.0, 0.5, g.Z(0, 0)}, data[0].Value)
	assert.Equal(t, []interface{}{0.5, 0.5, g.Z(1, 0)}, data[1].Value)
	assert.Equal(t, []interface{}{1.0, 8.0, g.Z(2, 1)}, data[5].Value)
}

func TestPlotHandlers(t *testing.T) {
	ws := newTestServer(nil)

	for _, path := range []string{"/plots/compression.png", "/plots/biomass.png", "/plots/protein.png"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(ws, testutil.NewTestRequest(http.MethodGet, path, testutil.ReferenceQuery()))

			testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
			assert.NoError(t, err)
		})
	}
}

func TestPlotHandlers_Errors(t *testing.T) {
	ws := newTestServer(nil)

	rec := serve(ws, testutil.NewTestRequest(http.MethodPost, "/plots/biomass.png", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)

	rec = serve(ws, testutil.NewTestRequest(http.MethodGet, "/plots/protein.png", url.Values{"e": {"x"}}))
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

// overflowQuery returns the reference query with coefficients whose biomass
// and protein estimates leave the float64 range.
func overflowQuery() url.Values {
	q := testutil.ReferenceQuery()
	q.Set("a", "1.7e308")
	q.Set("b", "-1e308")
	q.Set("c", "1.7e308")
	q.Set("d", "1.7e308")
	q.Set("e", "1.7e308")
	return q
}

func TestChartHandlers_Overflow(t *testing.T) {
	ws := newTestServer(nil)

	for _, path := range []string{
		"/charts/surface",
		"/charts/biomass",
		"/charts/protein",
		"/plots/biomass.png",
		"/plots/protein.png",
		"/api/charts/surface",
		"/api/charts/ndvi",
	} {
		t.Run(path, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			require.NotPanics(t, func() {
				rec = serve(ws, testutil.NewTestRequest(http.MethodGet, path, overflowQuery()))
			})
			testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
			var body map[string]string
			testutil.DecodeJSON(t, rec, &body)
			assert.Equal(t, pasture.ErrOverflow.Error(), body["error"])
		})
	}
}

func TestChartHandlers_OverflowLeavesCompression(t *testing.T) {
	ws := newTestServer(nil)

	for _, path := range []string{"/charts/compression", "/plots/compression.png", "/api/charts/compression"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(ws, testutil.NewTestRequest(http.MethodGet, path, overflowQuery()))
			testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
		})
	}
}
