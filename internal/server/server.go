package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/penwyp/go-crime-hexmap/internal/application/player"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/formatter"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

const geoJSONContentType = "application/geo+json"

// Config holds the HTTP server settings
type Config struct {
	Addr         string
	TickInterval time.Duration
}

// Validate fills defaults
func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.TickInterval == 0 {
		c.TickInterval = constants.DefaultTickInterval
	}
	if c.TickInterval < constants.MinTickInterval {
		return fmt.Errorf("tick interval %v is below the minimum of %v", c.TickInterval, constants.MinTickInterval)
	}
	return nil
}

// Server exposes an Engine over HTTP and drives its ticks.
type Server struct {
	config  Config
	engine  *player.Engine
	metrics *Metrics
	router  *gin.Engine
}

// StateResponse is the body of the state endpoints.
type StateResponse struct {
	Period model.Period `json:"period"`
	Month  string       `json:"month"`
	Paused bool         `json:"paused"`
	Cells  int          `json:"cells"`
	Total  int          `json:"total"`
	Status string       `json:"status,omitempty"`
}

func New(engine *player.Engine, config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	s := &Server{
		config:  config,
		engine:  engine,
		metrics: NewMetrics(),
	}
	engine.SetObserver(s.metrics.ObserveAssembly)
	s.metrics.WatchFrameCache(engine.CacheStats)
	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"events": s.engine.EventCount(),
		})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/frames/:period", s.getFrame)

		state := api.Group("/state")
		{
			state.GET("", s.getState)
			state.POST("/toggle", s.toggle)
			state.PUT("/period/:period", s.selectPeriod)
		}
	}
	return r
}

func (s *Server) getFrame(c *gin.Context) {
	period, ok := s.periodParam(c)
	if !ok {
		return
	}

	f, err := s.engine.FrameFor(period)
	if err != nil {
		util.LogErrorf("Failed to serve frame for %s: %v", period, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body, err := formatter.FeatureCollection(f).MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, geoJSONContentType, body)
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.stateResponse())
}

func (s *Server) toggle(c *gin.Context) {
	s.engine.Toggle()
	c.JSON(http.StatusOK, s.stateResponse())
}

func (s *Server) selectPeriod(c *gin.Context) {
	period, ok := s.periodParam(c)
	if !ok {
		return
	}
	if err := s.engine.Select(period); err != nil {
		s.rejectPeriod(c, err)
		return
	}
	c.JSON(http.StatusOK, s.stateResponse())
}

// periodParam parses :period, writing a 400 when it is not a month number.
func (s *Server) periodParam(c *gin.Context) (model.Period, bool) {
	period, err := model.ParsePeriod(c.Param("period"))
	if err != nil {
		s.rejectPeriod(c, err)
		return 0, false
	}
	return period, true
}

func (s *Server) rejectPeriod(c *gin.Context, err error) {
	s.metrics.RejectedSelection()
	util.LogDebug(fmt.Sprintf("Rejected period %q: %v", c.Param("period"), err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) stateResponse() StateResponse {
	playback := s.engine.State()
	view := s.engine.StateManager().ViewState(playback)
	resp := StateResponse{
		Period: playback.Period,
		Month:  playback.Period.String(),
		Paused: playback.Paused,
		Status: view.StatusMessage,
	}
	if f := s.engine.Frame(); f != nil {
		resp.Cells = f.Len()
		resp.Total = f.Total()
	}
	return resp
}

// Run serves until ctx is cancelled, ticking playback in the background.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	go s.tickLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		util.LogInfo("Server starting", util.F("addr", s.config.Addr), util.F("tick", s.config.TickInterval))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	util.LogInfo("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.engine.Tick() {
				util.LogDebugf("Advanced to %s", s.engine.State().Period)
			}
		}
	}
}
