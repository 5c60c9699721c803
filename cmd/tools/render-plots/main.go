// render-plots writes the compression chart and the biomass and protein
// heatmaps as PNG files, either rendered locally or fetched from a running
// pasture server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/pasture.report/internal/config"
	"github.com/banshee-data/pasture.report/internal/fsutil"
	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/plotting"
	"github.com/banshee-data/pasture.report/internal/security"
)

// remotePlots maps output file names to server routes.
var remotePlots = []struct {
	file  string
	route string
}{
	{plotting.CompressionFile, "/plots/compression.png"},
	{plotting.BiomassHeatmapFile, "/plots/biomass.png"},
	{plotting.ProteinHeatmapFile, "/plots/protein.png"},
}

func main() {
	client := httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
	if err := run(os.Args[1:], os.Stdout, client, fsutil.OSFileSystem{}); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("render-plots: %v", err)
	}
}

func run(args []string, out io.Writer, client httputil.HTTPClient, fsys fsutil.FileSystem) error {
	flags := flag.NewFlagSet("render-plots", flag.ContinueOnError)
	flags.SetOutput(out)
	outDir := flags.String("out", "plots", "Output directory (must be under the working or temp directory)")
	configPath := flags.String("config", "", "JSON defaults file supplying the coefficients (default: built-in)")
	server := flags.String("server", "", "Base URL of a running pasture server to fetch the PNGs from")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := security.ValidateOutputDir(*outDir); err != nil {
		return err
	}

	cfg := config.DefaultPastureConfig()
	if *configPath != "" {
		c, err := config.LoadPastureConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	coefs := cfg.GetCoefficients()

	var (
		written []string
		err     error
	)
	if *server != "" {
		written, err = fetchAll(context.Background(), client, fsys, *server, *outDir, coefs)
	} else {
		written, err = plotting.RenderAll(fsys, *outDir, coefs)
	}
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return err
}

// fetchAll downloads each PNG from the server's /plots routes into outDir.
func fetchAll(ctx context.Context, client httputil.HTTPClient, fsys fsutil.FileSystem, base, outDir string, c pasture.Coefficients) ([]string, error) {
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid -server URL: %w", err)
	}
	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	q := url.Values{}
	for name, v := range map[string]float64{"a": c.A, "b": c.B, "c": c.C, "d": c.D, "e": c.E} {
		q.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
	}

	written := make([]string, 0, len(remotePlots))
	for _, p := range remotePlots {
		body, err := httputil.FetchBytes(ctx, client, strings.TrimRight(base, "/")+p.route+"?"+q.Encode())
		if err != nil {
			return written, err
		}
		path := filepath.Join(outDir, p.file)
		if err := fsys.WriteFile(path, body, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
