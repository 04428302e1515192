package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lironatar/TasksList/internal/app"
)

const defaultMetricsEndpoint = "/metrics"

// metricsEndpoint returns the scrape path, or "" when Prometheus is disabled.
func metricsEndpoint(cfg *app.Config) string {
	if !cfg.Monitoring.Prometheus.Enabled {
		return ""
	}
	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		endpoint = defaultMetricsEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}

func registerMonitoringRoutes(r *gin.Engine, cfg *app.Config) {
	endpoint := metricsEndpoint(cfg)
	if endpoint == "" {
		return
	}
	r.GET(endpoint, gin.WrapH(promhttp.Handler()))
}
