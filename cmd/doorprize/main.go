// cmd/doorprize/main.go
//
// This is the entry point for the doorprize wheel.
// Run `doorprize` from the event folder; everything it keeps lives in
// ./.doorprize/.
//
// Flow:
// 1. Initialize .doorprize/ and load config.yaml (+ .env)
// 2. Start the display bridge when enabled
// 3. Run the TUI until the operator quits, then stop the bridge

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yopisonhaji/prototype-doorprize/internal/bridge"
	"github.com/yopisonhaji/prototype-doorprize/internal/config"
	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
	"github.com/yopisonhaji/prototype-doorprize/internal/logbook"
	"github.com/yopisonhaji/prototype-doorprize/internal/tui"
)

func main() {
	projectDir := flag.String("project", "", "event folder holding .doorprize/ (defaults to cwd)")
	seed := flag.Uint64("seed", 0, "seed the random draw for a rehearsal (0 = truly random)")
	flag.Parse()

	dir := *projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving project directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitDoorprizeDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .doorprize directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []tui.AppOption{tui.WithLogbook(lb)}
	if *seed != 0 {
		opts = append(opts, tui.WithRNG(draw.NewSeededRNG(*seed)))
		lb.Warn("Rehearsal mode · draws are seeded with %d", *seed)
	}

	settings := bridge.SettingsFromConfig(cfg)
	var server *bridge.Server
	if settings.Enabled {
		server = bridge.NewServer(settings, bridge.WithLogger(lb))
		if err := server.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting display bridge: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, tui.WithSink(server.Sink()))
	}

	app, err := tui.NewApp(cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting wheel: %v\n", err)
		os.Exit(1)
	}

	// tea.NewProgram creates a new bubbletea application
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
		tea.WithContext(ctx),
	)

	// Run blocks until the user quits
	_, runErr := p.Run()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			lb.Warn("Display bridge shutdown: %v", err)
		}
		cancel()
	}
	lb.Info("Session closed")

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", runErr)
		os.Exit(1)
	}
}
