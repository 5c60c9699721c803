package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pasture.report/internal/fsutil"
	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/plotting"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRun_Local(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var out bytes.Buffer

	require.NoError(t, run([]string{"-out", dir}, &out, httputil.NewMockHTTPClient(), fsutil.OSFileSystem{}))

	for _, name := range []string{plotting.CompressionFile, plotting.BiomassHeatmapFile, plotting.ProteinHeatmapFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
		assert.Contains(t, out.String(), "wrote "+filepath.Join(dir, name))
	}
}

func TestRun_Server(t *testing.T) {
	dir := filepath.Join("plots", "remote")
	mfs := fsutil.NewMemoryFileSystem()
	body := append(append([]byte{}, pngMagic...), "fake"...)
	client := httputil.NewMockHTTPClient().
		Handle("/plots/compression.png", httputil.MockResponse{StatusCode: http.StatusOK, Body: body}).
		Handle("/plots/biomass.png", httputil.MockResponse{StatusCode: http.StatusOK, Body: body}).
		Handle("/plots/protein.png", httputil.MockResponse{StatusCode: http.StatusOK, Body: body})

	var out bytes.Buffer
	require.NoError(t, run([]string{"-out", dir, "-server", "http://pasture.local:8080/"}, &out, client, mfs))

	reqs := client.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "pasture.local:8080", reqs[0].URL.Host)
	assert.Equal(t, "6000", reqs[1].URL.Query().Get("a"))
	assert.Equal(t, "4", reqs[2].URL.Query().Get("e"))

	data, err := mfs.ReadFile(filepath.Join(dir, plotting.BiomassHeatmapFile))
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Len(t, mfs.Files(), 3)
}

func TestRun_ServerErrors(t *testing.T) {
	dir := t.TempDir()

	// compression succeeds, biomass is missing
	client := httputil.NewMockHTTPClient().
		Handle("/plots/compression.png", httputil.MockResponse{StatusCode: http.StatusOK, Body: pngMagic})
	var out bytes.Buffer
	err := run([]string{"-out", dir, "-server", "http://pasture.local"}, &out, client, fsutil.OSFileSystem{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, out.String(), plotting.CompressionFile)

	client = httputil.NewMockHTTPClient().
		Handle("/plots/compression.png", httputil.MockResponse{Error: errors.New("connection refused")})
	err = run([]string{"-out", dir, "-server", "http://pasture.local"}, &out, client, fsutil.OSFileSystem{})
	assert.ErrorContains(t, err, "connection refused")

	err = run([]string{"-out", dir, "-server", "not a url"}, &out, client, fsutil.OSFileSystem{})
	assert.ErrorContains(t, err, "invalid -server URL")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer

	err := run([]string{"-out", "/"}, &out, httputil.NewMockHTTPClient(), fsutil.NewMemoryFileSystem())
	assert.ErrorContains(t, err, "output directory must be within")

	err = run([]string{"-out", t.TempDir(), "-config", "missing.txt"}, &out, httputil.NewMockHTTPClient(), fsutil.NewMemoryFileSystem())
	assert.ErrorContains(t, err, ".json extension")

	err = run([]string{"-bogus"}, &out, httputil.NewMockHTTPClient(), fsutil.NewMemoryFileSystem())
	assert.Error(t, err)
}

func TestRun_OverflowingConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "overflow.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"coef_a":1.7e308,"coef_b":-1e308,"coef_c":1.7e308}`), 0o600))

	mfs := fsutil.NewMemoryFileSystem()
	var out bytes.Buffer
	var err error
	require.NotPanics(t, func() {
		err = run([]string{"-out", "plots", "-config", cfgPath}, &out, httputil.NewMockHTTPClient(), mfs)
	})

	assert.ErrorIs(t, err, pasture.ErrOverflow)
	assert.ErrorContains(t, err, plotting.BiomassHeatmapFile)
	assert.Contains(t, out.String(), "wrote "+filepath.Join("plots", plotting.CompressionFile))
	_, readErr := mfs.ReadFile(filepath.Join("plots", plotting.BiomassHeatmapFile))
	assert.Error(t, readErr)
}
