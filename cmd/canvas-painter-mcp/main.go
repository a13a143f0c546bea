package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/canvas-painter-mcp/internal/config"
	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/server"
	"github.com/ironsheep/canvas-painter-mcp/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// CLI is the command line of the server. Everything else is configured
// through the TOML file and CANVAS_PAINTER_* environment variables.
type CLI struct {
	Config   string           `short:"c" help:"Path to a TOML config file" type:"path" env:"CANVAS_PAINTER_CONFIG"`
	StoreDir string           `help:"Persist the fleet in this directory (overrides store_dir)" type:"path"`
	Version  kong.VersionFlag `short:"v" help:"Print version information"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("canvas-painter-mcp"),
		kong.Description("MCP server that plans pixel painting of target images on a shared canvas.\n\n"+
			"This server communicates via MCP protocol over stdin/stdout.\n"+
			"Configure it in your MCP client (e.g., Claude Desktop)."),
		kong.Vars{"version": fmt.Sprintf("canvas-painter-mcp %s\n  Build time: %s\n  Git commit: %s", Version, BuildTime, GitCommit)},
		kong.UsageOnError(),
	)

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cli.StoreDir != "" {
		cfg.StoreDir = cli.StoreDir
	}
	if cfg.Debug() {
		log.Printf("Canvas Painter MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	pal, err := cfg.BuildPalette()
	if err != nil {
		log.Fatalf("Palette error: %v", err)
	}

	fleet, err := openFleet(cfg, pal)
	if err != nil {
		log.Fatalf("Store error: %v", err)
	}

	server.Version = Version
	srv := server.New(cfg, pal, fleet)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openFleet builds the fleet, restoring persisted images when a store
// directory is configured. Snapshots that no longer import are skipped;
// restored images whose color order had to be rebuilt are saved again.
func openFleet(cfg *config.Config, pal *palette.Palette) (*painter.Fleet, error) {
	if cfg.StoreDir == "" {
		return painter.NewFleet(nil, cfg.RatePerHour), nil
	}

	fs, err := store.NewFileStore(cfg.StoreDir)
	if err != nil {
		return nil, err
	}
	snaps, err := fs.Load()
	if err != nil {
		return nil, err
	}

	fleet := painter.NewFleet(fs, cfg.RatePerHour)
	for _, snap := range snaps {
		img, err := painter.FromSnapshot(snap, pal)
		if err != nil {
			log.Printf("Skipping stored image %s: %v", snap.ID, err)
			continue
		}
		if err := fleet.Restore(img); err != nil {
			log.Printf("Failed to restore stored image %s: %v", snap.ID, err)
		}
	}
	if cfg.Debug() {
		log.Printf("Restored %d image(s) from %s", fleet.Len(), cfg.StoreDir)
	}
	return fleet, nil
}
