package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/notekeeper/internal/container"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
)

// DebugModule exposes expvar and Prometheus metrics.
type DebugModule struct {
	Gatherer prometheus.Gatherer
}

// NewDebugModule serves reg at /metrics, or the default registry when reg is nil.
func NewDebugModule(reg *prometheus.Registry) *DebugModule {
	if reg == nil {
		return &DebugModule{Gatherer: prometheus.DefaultGatherer}
	}
	return &DebugModule{Gatherer: reg}
}

func (m *DebugModule) Name() string { return "debug" }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// rate-limited per IP; private networks (scrapers) bypass
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", rl, gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
}
