package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"

	"SectorPulse/internal/di"
	"SectorPulse/pkg/config"
	"SectorPulse/pkg/server"

	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	refreshAll := flag.Bool("refresh-all", false, "recompute and rewrite every sector cache, then exit")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s cache_backend=%s aggregator=%s", cfg.Environment, cfg.Cache.Backend, cfg.Aggregator.Mode)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *refreshAll {
		printRefreshStatus(app)
		return
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

func printRefreshStatus(app *server.App) {
	status := app.Service().RefreshAll(context.Background())

	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Sector", "Status"})
	for _, name := range names {
		t.AppendRow(table.Row{name, status[name]})
	}
	t.Render()
}
