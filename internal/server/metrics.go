package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// Metrics collects frame assembly and HTTP statistics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	assembleDuration   prometheus.Histogram
	framesAssembled    *prometheus.CounterVec
	rejectedSelections prometheus.Counter
	httpRequestsTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assembleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hexmap_frame_assemble_duration_seconds",
			Help:    "Histogram of frame assembly durations.",
			Buckets: prometheus.DefBuckets,
		}),
		framesAssembled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hexmap_frames_assembled_total",
			Help: "Total frames assembled by result.",
		}, []string{"result"}),
		rejectedSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hexmap_rejected_selections_total",
			Help: "Total period selections rejected as out of range.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hexmap_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.assembleDuration,
		m.framesAssembled,
		m.rejectedSelections,
		m.httpRequestsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveAssembly matches player.AssembleObserver.
func (m *Metrics) ObserveAssembly(_ model.Period, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.assembleDuration.Observe(duration.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.framesAssembled.WithLabelValues(result).Inc()
}

// WatchFrameCache exports frame cache hit and miss counts read from stats.
func (m *Metrics) WatchFrameCache(stats func() (hits, misses int64)) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "hexmap_frame_cache_hits_total",
			Help: "Total frame lookups served from the frame cache.",
		}, func() float64 {
			hits, _ := stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "hexmap_frame_cache_misses_total",
			Help: "Total frame lookups that required assembly.",
		}, func() float64 {
			_, misses := stats()
			return float64(misses)
		}),
	)
}

func (m *Metrics) RejectedSelection() {
	if m == nil {
		return
	}
	m.rejectedSelections.Inc()
}

// Middleware counts requests by matched route and status.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
