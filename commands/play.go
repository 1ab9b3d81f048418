package commands

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/application/player"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/spf13/cobra"
)

var (
	// Playback flags
	playInterval    time.Duration
	playPaused      bool
	playMonth       int
	playRefreshRate float64

	// Display flags
	playTitle    string
	playTopCells int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Animate the monthly hex map in the terminal",
	Long: `Draws the hex-bin choropleth in the terminal and advances one month per
tick, wrapping from December back to January.

Keys:
  p, space   pause or resume
  1-9 0 - =  jump to January through December
  n, b       next or previous month (arrow keys also work)
  h          help
  q, Ctrl+C  quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&playInterval, "interval", constants.DefaultTickInterval,
		"Time each month stays on screen")
	playCmd.Flags().BoolVar(&playPaused, "paused", false,
		"Start paused")
	playCmd.Flags().IntVarP(&playMonth, "month", "m", constants.InitialPeriod,
		"Month to start on (1-12)")
	playCmd.Flags().Float64Var(&playRefreshRate, "refresh-per-second", constants.DefaultUIRefreshHz,
		"Display refresh rate (0.1-20 Hz)")
	playCmd.Flags().StringVar(&playTitle, "title", "Crime Hex Map",
		"Title shown in the header")
	playCmd.Flags().IntVar(&playTopCells, "top", 5,
		"Number of busiest cells listed under the map")
}

func runPlay(cmd *cobra.Command, args []string) error {
	config, err := newPlayerConfig()
	if err != nil {
		return err
	}
	config.TickInterval = playInterval
	config.UIRefreshRate = playRefreshRate
	config.StartPeriod = playMonth
	config.StartPaused = playPaused
	config.Title = playTitle
	config.TopCells = playTopCells

	orchestrator, err := player.NewOrchestrator(config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return orchestrator.Run(ctx)
}
