// Copyright 2025 The prefixrank Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the prefixrank completion server and CLI [DBG] application.

prefixrank stores weighted entries in a prefix tree and answers prefix
queries with the heaviest matching entries. It runs as a MessagePack IPC
server for editors and other processes, or as a CLI for testing.

# Usage

Start the server over a text source, one entry per line:

	prefixrank -data data/lotr.txt

Complete sentences word by word from a CSV of text,weight rows, in CLI mode:

	prefixrank -engine sentence -data data/searches.csv -c

Complete melodies by their interval sequence with an uncompressed tree that
ranks by average weight:

	prefixrank -engine melody -tree simple -weight average -data data/songbook.csv -c

# Configuration

Defaults come from a TOML file, created on first run:

	[tree]
	kind = "compressed"
	weight_mode = "sum"
	max_depth = 4096

	[engine]
	kind = "letter"
	source = ""
	cache_size = 1024
	default_weight = 1.0

	[server]
	max_limit = 64
	min_prefix = 0
	max_prefix = 120
	default_limit = 20

	[log]
	level = "info"
	file = ""

Flags override the file. When [log] file is set, logs rotate there instead
of going to stderr.

# Server Mode

The default mode reads MessagePack requests from stdin and writes responses
to stdout; see package server for the protocol.

	srv := server.NewServer(completer, cfg, configPath)
	err := srv.Start()

# CLI Mode

CLI mode reads one line at a time. Plain text is a prefix to complete;
commands start with a colon:

	:add entry [weight]   insert entry
	:rm prefix            remove every entry under prefix
	:stats                tree and cache counters
	:help                 list commands

	handler := cli.NewInputHandler(completer, cli.Options{Limit: 10})
	err := handler.Start()

# Command Line Flags

	-config string
	    Path to a config file
	-data string
	    Source file to load (.txt for letter, .csv for sentence and melody).
	    Without -engine, a source the configured engine cannot load picks
	    the engine matching its format.
	-engine string
	    letter, sentence or melody
	-tree string
	    simple or compressed
	-weight string
	    sum or average
	-limit int
	    Number of suggestions to return in CLI mode
	-d  Enable debug logging
	-c  Run in CLI mode instead of server mode
	-version
	    Show the version
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/prefixrank/internal/cli"
	"github.com/bastiangx/prefixrank/internal/logger"
	"github.com/bastiangx/prefixrank/pkg/config"
	"github.com/bastiangx/prefixrank/pkg/server"
	"github.com/bastiangx/prefixrank/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "prefixrank"
	gh      = "https://github.com/bastiangx/prefixrank"
)

var osExit = os.Exit

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(logOutput io.Closer) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		exit(logOutput, 0)
	}()
}

// exit closes the log output, which deferred calls would skip, and ends the process.
func exit(logOutput io.Closer, code int) {
	if err := logOutput.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log output: %v\n", err)
	}
	osExit(code)
}

// fatalf logs at error level and exits with status 1 after closing the log output.
func fatalf(logOutput io.Closer, format string, args ...any) {
	log.Errorf(format, args...)
	exit(logOutput, 1)
}

// main only manages the flow between config, completer and the chosen mode.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	dataPath := flag.String("data", "", "Source file to load (overrides [engine] source)")
	engineKind := flag.String("engine", "", "Engine: letter, sentence or melody")
	treeKind := flag.String("tree", "", "Tree: simple or compressed")
	weightMode := flag.String("weight", "", "Weight mode: sum or average")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", -1, "Number of suggestions to return in CLI mode (0 for all)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *dataPath, *engineKind, *treeKind, *weightMode, *limit)

	logOpts := logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	if *debugMode {
		logOpts.Level = "debug"
	}
	closer, err := logger.Setup(logOpts)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()
	sigHandler(closer)

	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))
	log.Debug("Init completer", "engine", cfg.Engine.Kind, "tree", cfg.Tree.Kind, "weight", cfg.Tree.WeightMode, "source", cfg.Engine.Source)

	completer, err := suggest.NewCompleter(cfg)
	if err != nil {
		fatalf(closer, "Failed to init completer: %v", err)
	}
	if cfg.Engine.Source == "" {
		log.Warn("No source specified, running with an empty tree...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		handler := cli.NewInputHandler(completer, cli.Options{
			MinPrefix:     cfg.Server.MinPrefix,
			MaxPrefix:     cfg.Server.MaxPrefix,
			Limit:         cfg.CLI.DefaultLimit,
			DefaultWeight: cfg.Engine.DefaultWeight,
			Color:         cfg.CLI.Color,
		})
		if err := handler.Start(); err != nil {
			fatalf(closer, "CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, cfg, activePath)
	showStartupInfo(cfg, completer.Len())
	if err := srv.Start(); err != nil {
		fatalf(closer, "Server stopped: %v", err)
	}
}

// applyFlags lets non-empty flags override the loaded config. A data source
// given without an engine switches to the engine that loads its format.
func applyFlags(cfg *config.Config, data, engine, tree, weight string, limit int) {
	if data != "" {
		cfg.Engine.Source = data
	}
	if engine != "" {
		cfg.Engine.Kind = engine
	} else if data != "" {
		// An undetectable source is left for NewCompleter to report.
		if kind, err := suggest.EngineForSource(data, cfg.Engine.Kind); err == nil && kind != cfg.Engine.Kind {
			log.Info("Engine picked from source format", "source", data, "engine", kind)
			cfg.Engine.Kind = kind
		}
	}
	if tree != "" {
		cfg.Tree.Kind = tree
	}
	if weight != "" {
		cfg.Tree.WeightMode = weight
	}
	if limit >= 0 {
		cfg.CLI.DefaultLimit = limit
	}
	cfg.Validate()
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ prefixrank ] Weighted prefix completions")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo writes basic info about the init process to stderr.
func showStartupInfo(cfg *config.Config, entries int) {
	info := logger.New(AppName)
	info.SetLevel(log.InfoLevel)
	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Info("init: OK", "engine", cfg.Engine.Kind, "tree", cfg.Tree.Kind, "weight", cfg.Tree.WeightMode, "entries", entries)
	info.Info("status: ready")
}
