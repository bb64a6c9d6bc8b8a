// Command reasonerd is the kernel process entry point (DESIGN.md, "Entry
// point"): it loads configuration, opens the configured persistence
// backend, constructs the Reasoner, restores any prior snapshot into it,
// and serves the host command surface on stdio — the line-oriented
// protocol by default, or the MCP tool surface instead with -mcp.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/narswright/nars-kernel/internal/config"
	"github.com/narswright/nars-kernel/internal/host"
	"github.com/narswright/nars-kernel/internal/host/mcptools"
	"github.com/narswright/nars-kernel/internal/persist"
	"github.com/narswright/nars-kernel/internal/persist/graphstore"
	"github.com/narswright/nars-kernel/internal/reasoner"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file (optional)")
	saveOnExit := flag.Bool("save-on-exit", true, "snapshot reasoner state to the storage backend on shutdown")
	mcpMode := flag.Bool("mcp", false, "serve the MCP tool surface on stdio instead of the line-oriented protocol")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("reasonerd: loading config: %v", err)
	}
	if cfg.Logging.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		log.Fatalf("reasonerd: opening storage backend %q: %v", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("reasonerd: closing storage backend: %v", err)
		}
	}()

	r, err := reasoner.New(cfg.Reasoner.ToHyperparams())
	if err != nil {
		log.Fatalf("reasonerd: constructing reasoner: %v", err)
	}

	snap, err := backend.Load()
	if err != nil {
		log.Fatalf("reasonerd: loading snapshot: %v", err)
	}
	if len(snap.Tasks) > 0 || len(snap.Concepts) > 0 {
		if err := persist.Restore(r, snap); err != nil {
			log.Fatalf("reasonerd: restoring snapshot: %v", err)
		}
		log.Printf("reasonerd: restored snapshot (tick=%d, concepts=%d)", snap.Tick, len(snap.Concepts))
	}

	d := host.New(r)

	if *saveOnExit {
		defer func() {
			if err := backend.Save(persist.Capture(r)); err != nil {
				log.Printf("reasonerd: saving snapshot: %v", err)
			}
		}()
	}

	if *mcpMode {
		serveMCP(cfg, d)
		return
	}

	log.Printf("reasonerd: %s v%s (%s) serving stdio", cfg.Server.Name, cfg.Server.Version, cfg.Server.Environment)
	if err := host.Stdio(d, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("reasonerd: stdio loop: %v", err)
	}
}

// openBackend selects the storage backend per cfg, wiring the neo4j
// backend (internal/persist/graphstore) directly here since persist.Open
// cannot import it without creating an import cycle (see
// internal/persist/factory.go).
func openBackend(s config.Storage) (persist.Backend, error) {
	if s.Backend == "neo4j" {
		return graphstore.Open(s.DSN)
	}
	return persist.Open(s.Backend, s.DSN)
}

func serveMCP(cfg config.Config, d *host.Dispatcher) {
	server := mcp.NewServer(&mcp.Implementation{Name: cfg.Server.Name, Version: cfg.Server.Version}, nil)
	mcptools.Register(server, d)
	log.Printf("reasonerd: %s v%s serving MCP tools on stdio", cfg.Server.Name, cfg.Server.Version)
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("reasonerd: mcp server: %v", err)
	}
}
