// Package web serves the pasture calculator: the HTML page, the go-echarts
// chart pages, PNG exports, the JSON API and the optional scenario log.
package web

import (
	"context"
	"embed"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/banshee-data/pasture.report/internal/config"
	"github.com/banshee-data/pasture.report/internal/db"
	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/monitoring"
)

//go:embed templates/*.html
var templateFS embed.FS

var logf = monitoring.Prefixed("web")

// ScenarioStore is the subset of the scenario log the web server needs.
// *db.DB satisfies it.
type ScenarioStore interface {
	SaveScenario(s *db.Scenario) error
	GetScenario(id string) (*db.Scenario, error)
	ListScenarios(limit int) ([]*db.Scenario, error)
	DeleteScenario(id string) error
}

// WebServer handles the HTTP interface of the calculator.
type WebServer struct {
	address     string
	server      *http.Server
	config      *config.PastureConfig
	store       ScenarioStore
	metrics     *monitoring.Metrics
	templates   TemplateProvider
	adminRoutes func(mux *http.ServeMux) error
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	// Config supplies the form defaults. Nil means built-in defaults.
	Config *config.PastureConfig
	// Store is the scenario log. Nil disables the scenario endpoints.
	Store ScenarioStore
	// Metrics defaults to a fresh registry when nil.
	Metrics *monitoring.Metrics
	// Templates defaults to the embedded templates when nil.
	Templates TemplateProvider
	// AdminRoutes, if set, is called with the mux to attach debug routes.
	// An error is logged and the calculator keeps serving.
	AdminRoutes func(mux *http.ServeMux) error
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(cfg WebServerConfig) *WebServer {
	ws := &WebServer{
		address:     cfg.Address,
		config:      cfg.Config,
		store:       cfg.Store,
		metrics:     cfg.Metrics,
		templates:   cfg.Templates,
		adminRoutes: cfg.AdminRoutes,
	}
	if ws.config == nil {
		ws.config = config.DefaultPastureConfig()
	}
	if ws.metrics == nil {
		ws.metrics = monitoring.NewMetrics()
	}
	if ws.templates == nil {
		ws.templates = NewEmbeddedTemplateProvider()
	}

	ws.server = &http.Server{
		Addr:              ws.address,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return ws
}

// Handler returns the routed handler wrapped in request logging.
func (ws *WebServer) Handler() http.Handler {
	return httputil.LoggingMiddleware(ws.setupRoutes())
}

// Start serves until ctx is cancelled, then shuts down gracefully.
// It returns an error only if the listener could not be started.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := ws.server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/", ws.handleIndex)
	mux.Handle("/metrics", ws.metrics.Handler())

	// go-echarts pages, embedded by the index page as iframes
	mux.HandleFunc("/charts/compression", ws.handleCompressionChart)
	mux.HandleFunc("/charts/surface", ws.handleSurfaceChart)
	mux.HandleFunc("/charts/biomass", ws.handleBiomassChart)
	mux.HandleFunc("/charts/protein", ws.handleProteinChart)

	// gonum/plot exports
	mux.HandleFunc("/plots/compression.png", ws.handleCompressionPNG)
	mux.HandleFunc("/plots/biomass.png", ws.handleBiomassPNG)
	mux.HandleFunc("/plots/protein.png", ws.handleProteinPNG)

	mux.HandleFunc("/api/estimate", ws.handleEstimate)
	mux.HandleFunc("/api/stiffness", ws.handleStiffness)
	mux.HandleFunc("/api/config", ws.handleConfig)
	mux.HandleFunc("/api/charts/compression", ws.handleCompressionJSON)
	mux.HandleFunc("/api/charts/surface", ws.handleSurfaceJSON)
	mux.HandleFunc("/api/charts/ndvi", ws.handleNDVIJSON)

	mux.HandleFunc("/api/scenarios", ws.handleScenarios)
	mux.HandleFunc("/api/scenarios/{id}", ws.handleScenario)

	if ws.adminRoutes != nil {
		if err := ws.adminRoutes(mux); err != nil {
			logf("admin routes unavailable: %v", err)
		}
	}

	return mux
}

// Close shuts down the web server.
func (ws *WebServer) Close() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}
