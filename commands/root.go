package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/penwyp/go-crime-hexmap/internal/application/player"
	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/data/cache"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/formatter"
	"github.com/penwyp/go-crime-hexmap/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Data source
	dataPath   string
	table      string
	categories []string

	// Binning and coloring
	resolution int
	timezone   string
	palette    string

	// Parsed-file cache
	noCache bool
	reset   bool

	// Report output
	month        int
	outputFormat string

	rootCmd = &cobra.Command{
		Use:   "go-crime-hexmap [flags]",
		Short: "Monthly crime hex-bin choropleth",
		Long: `go-crime-hexmap bins point-located crime records into H3 hexagonal cells,
one frame per calendar month, and colors each cell by its event count.

Without a subcommand it prints the frames as a report. Use "play" for the
animated terminal map and "serve" for the HTTP frame server.

Examples:
  go-crime-hexmap --data street.csv                      # Table of every month
  go-crime-hexmap --data data/ --month 5                 # May only
  go-crime-hexmap --data crimes.db --output geojson      # GeoJSON FeatureCollection
  go-crime-hexmap --data data/ --category "Violence and sexual offences"
  go-crime-hexmap play --data data/ --interval 2s        # Animate in the terminal
  go-crime-hexmap serve --data data/ --addr :8080        # Serve frames over HTTP`,
		PersistentPreRunE: setup,
		RunE:              runReport,
		SilenceUsage:      true,
	}
)

const (
	defaultLogFile  = "~/.go-crime-hexmap/logs/app.log"
	defaultCacheDir = "~/.go-crime-hexmap/cache"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"Crime data file or directory (.csv, .jsonl, .sqlite)")
	rootCmd.PersistentFlags().StringVar(&table, "table", "",
		"SQLite table holding month, latitude and longitude columns (default \"crimes\")")
	rootCmd.PersistentFlags().StringSliceVar(&categories, "category", nil,
		"Only keep these crime types (repeatable, case-insensitive)")

	// Binning and coloring
	rootCmd.PersistentFlags().IntVar(&resolution, "resolution", 8,
		"H3 resolution (0-15)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "UTC",
		"Timezone used to assign events to months (e.g., Europe/London, Local)")
	rootCmd.PersistentFlags().StringVar(&palette, "palette", strings.Join(colorscale.DefaultPalette(), ","),
		"Comma separated hex colors, lowest bin first")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Parse every file instead of reusing cached results")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before loading")

	// Report output
	rootCmd.Flags().IntVarP(&month, "month", "m", 0,
		"Month to report (1-12, 0 = all)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, geojson, csv, summary)")
}

// setup initializes logging and the timezone for every command
func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	if reset {
		fileCache, err := cache.NewFileCache(expandPath(defaultCacheDir))
		if err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		if err := fileCache.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}
	return nil
}

// newPlayerConfig builds the shared config from persistent flags
func newPlayerConfig() (*player.PlayerConfig, error) {
	if dataPath == "" {
		return nil, fmt.Errorf("--data is required")
	}
	colors, err := colorscale.ParsePalette(palette)
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}
	cacheDir := ""
	if !noCache {
		cacheDir = expandPath(defaultCacheDir)
	}
	return &player.PlayerConfig{
		DataPath:    expandPath(dataPath),
		CacheDir:    cacheDir,
		Table:       table,
		Categories:  categories,
		Concurrency: runtime.NumCPU(),
		Resolution:  resolution,
		Palette:     colors,
		Timezone:    timezone,
	}, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	if month != 0 {
		if err := model.ValidatePeriod(model.Period(month)); err != nil {
			return fmt.Errorf("invalid --month: %w", err)
		}
	}

	config, err := newPlayerConfig()
	if err != nil {
		return err
	}
	engine, err := player.LoadEngine(config)
	if err != nil {
		return err
	}

	periods := []model.Period{model.Period(month)}
	if month == 0 {
		periods = periods[:0]
		for p := model.Period(constants.MinPeriod); p <= constants.MaxPeriod; p++ {
			periods = append(periods, p)
		}
	}

	frames := make([]*frame.Frame, 0, len(periods))
	for _, p := range periods {
		f, err := engine.FrameFor(p)
		if err != nil {
			return fmt.Errorf("failed to build frame for %s: %w", p, err)
		}
		frames = append(frames, f)
	}

	out, err := formatter.New(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return out.Format(frames)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
