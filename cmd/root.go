// Package cmd is scrawl's CLI surface, grounded on the teacher's
// cmd/root.go: a single Cobra root command wiring Viper configuration,
// debug logging, and a Bubble Tea program into one RunE.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"scrawl/internal/config"
	"scrawl/internal/editor"
	"scrawl/internal/gps"
	"scrawl/internal/history"
	"scrawl/internal/log"
	"scrawl/internal/logring"
	"scrawl/internal/pubsub"
	"scrawl/internal/tracing"
	"scrawl/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version     = "dev"
	cfgFile     string
	gpsEndpoint string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:     "scrawl [canvas-file]",
	Short:   "An interactive terminal mind-map editor",
	Long:    `scrawl is a terminal mind-map editor: click to place anchors, tab to branch children, and draw routed arrows between any two nodes.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scrawl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug mode: file logging and operation tracing")
	rootCmd.Flags().StringVar(&gpsEndpoint, "gps-endpoint", "",
		"override the GPS probe HTTP endpoint")
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug := debugFlag || cfg.Debug || os.Getenv("SCRAWL_DEBUG") != ""

	minLevel := log.LevelInfo
	if debug {
		minLevel = log.LevelDebug
	}
	logPath := cfg.DebugLogPath
	if debug && logPath == "" {
		logPath = "scrawl-debug.log"
	}
	if !debug {
		logPath = ""
	}
	cleanup, err := log.Init(logPath, minLevel)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer cleanup()
	log.Info(log.CatConfig, "scrawl starting", "version", version, "debug", debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ring := logring.New(ctx, log.Broker())
	listener := pubsub.NewContinuousListener[string](ctx, log.Broker())

	tracerEnabled := debug || cfg.TracingEnabled
	tracer, err := tracing.NewProvider(tracerEnabled)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	var hist *history.Store
	histPath := cfg.HistoryDBPath
	if histPath == "" {
		histPath = "scrawl-history.db"
	}
	hist, err = history.Open(histPath)
	if err != nil {
		log.ErrorErr(log.CatHistory, "opening history database failed, continuing without save history", err)
		hist = nil
	}
	if hist != nil {
		defer func() { _ = hist.Close() }()
	}

	endpoint := cfg.GPS.Endpoint
	if gpsEndpoint != "" {
		endpoint = gpsEndpoint
	}
	prober := gps.NewHTTPProber(endpoint, cfg.GPS.Timeout)

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	var fileWatcher *watcher.Watcher
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			fileWatcher, err = watcher.New(path, 200*time.Millisecond)
			if err != nil {
				log.ErrorErr(log.CatWatcher, "starting file watcher failed, continuing without it", err)
				fileWatcher = nil
			}
		}
	}

	zone.NewGlobal()

	model := editor.New(path, cfg, ring, listener, hist, prober, fileWatcher, tracer)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, runErr := p.Run()

	if runErr != nil {
		log.ErrorErr(log.CatConfig, "scrawl exited with error", runErr)
		return fmt.Errorf("running program: %w", runErr)
	}
	log.Info(log.CatConfig, "scrawl shutting down")
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
