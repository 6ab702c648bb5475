// Package main is the entry point for the keyladder demo editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keyladder/internal/app"
	"github.com/dshills/keyladder/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, logFile := parseFlags()

	if logFile != nil {
		defer logFile.Close()
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Handle signals for graceful shutdown.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Close()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, *os.File) {
	var (
		configPath  string
		logLevel    string
		logPath     string
		noWatch     bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logPath, "log-file", "", "Write logs to file instead of stderr")
	flag.BoolVar(&noWatch, "no-watch", false, "Disable live configuration reload")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyladder - trigger-key escalation demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyladder [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyladder                      Run with built-in defaults\n")
		fmt.Fprintf(os.Stderr, "  keyladder -c keyladder.toml    Run with a config file, live-reloaded\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("keyladder %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(logLevel)

	var logFile *os.File
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			os.Exit(1)
		}
		logCfg.Output = f
		logFile = f
	}
	logging.SetLogger(logging.New(logCfg))

	return app.Options{
		ConfigPath: configPath,
		Watch:      configPath != "" && !noWatch,
	}, logFile
}
