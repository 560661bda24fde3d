// Parvis - always-on local voice assistant.
//
// Listens for the "Parvis" wake word, runs the conversation through
// the local speech pipeline, and goes back to listening.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/parvislabs/go-parvis/internal/config"
	"github.com/parvislabs/go-parvis/internal/log"
	"github.com/parvislabs/go-parvis/pkg/assistant"
	"github.com/parvislabs/go-parvis/pkg/speech"
)

func main() {
	envFile := flag.String("env", "", "Env file to load (default: ./.env when present)")
	monitor := flag.Bool("monitor", false, "Enable the web monitor regardless of PARVIS_MONITOR")
	port := flag.String("port", "", "Web monitor port (default from PARVIS_MONITOR_PORT)")
	flag.Usage = usage
	flag.Parse()

	mode := speech.ModeSimulation
	if arg := flag.Arg(0); arg != "" {
		m, err := speech.ParseMode(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n\n", err)
			usage()
			os.Exit(2)
		}
		mode = m
	}

	var cfg *config.Config
	if *envFile != "" {
		cfg = config.Load(*envFile)
	} else {
		cfg = config.Load()
	}
	if *monitor {
		cfg.Monitor.Enabled = true
	}
	if *port != "" {
		cfg.Monitor.Port = *port
	}
	log.Init(cfg.LogLevel)

	fmt.Println("🤖 Starting Parvis Assistant...")
	fmt.Printf("   Mode: %s\n", mode)
	if mode != speech.ModeText {
		fmt.Println("   Say 'Parvis' to activate")
	}
	if cfg.Monitor.Enabled {
		fmt.Printf("   Monitor: http://localhost:%s\n", cfg.Monitor.Port)
	}
	fmt.Println("   Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := assistant.New(mode, cfg)
	if err := app.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "❌ Runtime error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n👋 Goodbye!")
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: parvis [flags] [mode]

Modes:
  hardware    real microphone, local models, audible speech
  simulation  scripted utterances with realistic delays (default)
  text        type messages, read responses

Flags:
`)
	flag.PrintDefaults()
}
