package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penwyp/go-crime-hexmap/internal/application/player"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveInterval time.Duration
	serveMonth    int
	servePaused   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve monthly frames and playback state over HTTP",
	Long: `Starts an HTTP server that advances the animation on a timer and exposes it:

  GET  /api/v1/frames/:period        GeoJSON FeatureCollection for a month
  GET  /api/v1/state                 current month and paused flag
  POST /api/v1/state/toggle          pause or resume
  PUT  /api/v1/state/period/:period  jump to a month
  GET  /health
  GET  /metrics                      Prometheus metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080",
		"Listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", constants.DefaultTickInterval,
		"Time between month advances")
	serveCmd.Flags().IntVarP(&serveMonth, "month", "m", constants.InitialPeriod,
		"Month to start on (1-12)")
	serveCmd.Flags().BoolVar(&servePaused, "paused", false,
		"Start paused")
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := newPlayerConfig()
	if err != nil {
		return err
	}
	config.TickInterval = serveInterval
	config.StartPeriod = serveMonth
	config.StartPaused = servePaused

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := player.LoadEngine(config)
	if err != nil {
		return err
	}

	srv, err := server.New(engine, server.Config{Addr: serveAddr, TickInterval: serveInterval})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d events on %s\n", engine.EventCount(), serveAddr)
	return srv.Run(ctx)
}
