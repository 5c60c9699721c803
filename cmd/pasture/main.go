package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/pasture.report/internal/config"
	"github.com/banshee-data/pasture.report/internal/db"
	"github.com/banshee-data/pasture.report/internal/web"
	"github.com/banshee-data/pasture.report/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Run in dev mode (templates reloaded from ./internal/web/templates)")
	listen      = flag.String("listen", ":8080", "Listen address")
	configFile  = flag.String("config", "", "JSON defaults file (default: "+config.DefaultConfigPath+" if present)")
	dbFile      = flag.String("db", "pasture.db", "SQLite scenario log; empty disables saving scenarios")
	layout      = flag.String("layout", "", "Chart layout override: surface or split")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// devTemplatesDir is where -dev reads templates from, relative to the repo root.
const devTemplatesDir = "internal/web/templates"

// loadConfig resolves the form defaults: an explicit file must load, the
// default path is used when it exists, and otherwise built-in values apply.
// A non-empty layoutOverride replaces the configured layout.
func loadConfig(path, layoutOverride string) (*config.PastureConfig, error) {
	var cfg *config.PastureConfig
	switch {
	case path != "":
		c, err := config.LoadPastureConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.LoadPastureConfig(config.DefaultConfigPath)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, fs.ErrNotExist):
			cfg = config.DefaultPastureConfig()
		default:
			return nil, err
		}
	}

	if layoutOverride != "" {
		if !config.IsValidLayout(layoutOverride) {
			return nil, fmt.Errorf("invalid -layout %q: want %q or %q", layoutOverride, config.LayoutSurface, config.LayoutSplit)
		}
		cfg.Layout = &layoutOverride
	}
	return cfg, nil
}

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Handle subcommands
	if flag.NArg() > 0 {
		switch flag.Arg(0) {
		case "migrate":
			if *dbFile == "" {
				log.Fatal("migrate needs a database: pass -db")
			}
			if err := db.RunMigrateCommand(flag.Args()[1:], *dbFile); err != nil {
				log.Fatalf("migrate: %v", err)
			}
			return
		default:
			log.Fatalf("unknown command %q (want: migrate)", flag.Arg(0))
		}
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if *devMode {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := loadConfig(*configFile, *layout)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	serverConfig := web.WebServerConfig{
		Address: *listen,
		Config:  cfg,
	}

	if *dbFile != "" {
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
		serverConfig.Store = database
		// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
		serverConfig.AdminRoutes = database.AttachAdminRoutes
		log.Printf("scenario log: %s", database.Path())
	} else {
		log.Print("scenario log disabled")
	}

	if *devMode {
		serverConfig.Templates = web.NewFSTemplateProvider(os.DirFS(devTemplatesDir), "", false)
	}

	server := web.NewWebServer(serverConfig)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(ctx); err != nil {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	wg.Wait()
	log.Printf("%s stopped", version.String())
}
