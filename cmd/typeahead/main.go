// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead completion server and CLI [DBG] application.

Typeahead answers prefix queries over a weighted catalogue of terms. The
catalogue is loaded once, sorted by text, and every query is two binary
searches for the bounds of the matching range followed by a sort of that range
by weight, heaviest first. It can operate as a MessagePack (or JSON lines) IPC
server for integration with editors and launchers, or as a CLI application for
testing and debugging.

# Usage

Start the server with the catalogue from the config file:

	typeahead

Use a specific catalogue and enable debug logging:

	typeahead -f /path/to/cities.txt -d

Run in CLI mode for interactive testing:

	typeahead -c --limit 10 --prmin 2

# Catalogue

A catalogue starts with the number of terms, followed by one term per line as
a weight and the text, separated by whitespace:

	3
	5000000	Berlin, Germany
	8336817	New York, United States
	3971883	Los Angeles, United States

Files ending in .gz or .zst, or starting with their magic bytes, are
decompressed on the fly.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_limit = 64
	default_limit = 10
	min_prefix = 1
	max_prefix = 200
	enable_filter = false
	codec = "msgpack"

	[catalogue]
	path = ""
	verify_sorted = false
	max_text_len = 0
	hot_cache_size = 1024

The config file is created with defaults if it doesn't exist. In server mode
edits are picked up without a restart.

# IPC Protocol

Send a completion request:

	{"id": "req1", "p": "ber", "l": 5}

Receive suggestions ranked by weight:

	{"id": "req1", "s": [{"w": "Berlin, Germany", "r": 1, "wt": 5000000}], "c": 1, "t": 12}

Status requests:

	{"id": "i1", "action": "get_info"}
	{"id": "h1", "action": "health"}
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/internal/watcher"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const (
	Version = "0.3.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

// main wires config, catalogue, completer and either the CLI or the server.
// It does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	cataloguePath := flag.StringP("file", "f", "", "Catalogue file (overrides [catalogue] path)")
	configPath := flag.String("config", "", "Path to a custom config file")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")
	debugMode := flag.BoolP("debug", "d", false, "Toggle debug mode")
	cliMode := flag.BoolP("cli", "c", false, "Run CLI -- useful for testing and debugging")
	jsonCodec := flag.Bool("json", false, "Use newline-delimited JSON instead of MessagePack")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (numbers, symbols, repeated characters)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at %s\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !*debugMode {
		logger.SetLevel(appConfig.Log.Level)
	}
	if *jsonCodec {
		appConfig.Server.Codec = config.CodecJSON
	}

	source := *cataloguePath
	if source == "" {
		source = appConfig.Catalogue.Path
	}
	if source == "" {
		log.Fatal("No catalogue given: use -f or set [catalogue] path in the config")
	}
	resolvedCatalogue, err := pathResolver.GetCataloguePath(source)
	if err != nil {
		log.Fatalf("Failed to resolve catalogue: %v", err)
	}
	log.Debugf("Using catalogue at: %s", resolvedCatalogue)

	loader := dictionary.NewLoader(dictionary.Options{MaxTextLen: appConfig.Catalogue.MaxTextLen})
	terms, err := loader.Load(resolvedCatalogue)
	if err != nil {
		log.Fatalf("Failed to load catalogue: %v", err)
	}
	stats := loader.Stats()
	log.Debug("Catalogue loaded",
		"terms", humanize.Comma(int64(stats.Loaded)),
		"malformed", stats.Malformed,
		"missing", stats.Missing,
		"format", stats.Format)

	completer := suggest.NewCompleter(terms,
		suggest.WithHotCache(appConfig.Catalogue.HotCacheSize),
		suggest.WithVerifySorted(appConfig.Catalogue.VerifySorted))
	if err := completer.Validate(); err != nil {
		log.Fatalf("Catalogue rejected: %v", err)
	}

	// CLI is mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(completer, appConfig, activeConfigPath)
	showStartupInfo(resolvedCatalogue, stats.Loaded, activeConfigPath)

	if err := run(ctx, srv, activeConfigPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run serves until input ends or a signal arrives. The config watcher is
// stopped together with the server.
func run(ctx context.Context, srv *server.Server, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return srv.Serve(ctx)
	})

	if configPath != "" {
		w, err := watcher.New(configPath, func() {
			if err := srv.ReloadConfig(); err != nil {
				log.Warnf("Config reload failed: %v", err)
			}
		})
		if err != nil {
			log.Warnf("Config watching disabled: %v", err)
		} else {
			g.Go(func() error {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Warnf("Config watcher stopped: %v", err)
				}
				return nil
			})
		}
	}

	return g.Wait()
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
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
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Typeahead ] Ranked prefix completions over weighted catalogues")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo prints basic info about the init process to stderr.
// stdout belongs to the IPC stream.
func showStartupInfo(cataloguePath string, terms int, configPath string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " Typeahead ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalogue: ( %s ), %s terms", cataloguePath, humanize.Comma(int64(terms)))
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
}
