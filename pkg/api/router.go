// Package api serves the neighborhood analyses over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/metrics"
	"github.com/mchmarny/ppinet/pkg/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Analyzer *analyzer.Analyzer
	Version  string
	// TopK is used when a ranking request carries no k.
	TopK int
}

// NewRouter creates the gin engine serving deps.Analyzer.
func NewRouter(deps *RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(requestID())
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(prometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := deps.Analyzer
	metrics.SetGraph(a.Graph.CountNodes(), a.Graph.CountEdges(), a.Known.Len())

	topK := deps.TopK
	if topK <= 0 {
		topK = report.DefaultTopK
	}
	h := &handler{analyzer: a, version: deps.Version, topK: topK}

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.health)
	v1.GET("/stats", h.stats)

	v1.GET("/nodes/:id/degree", h.degree)
	v1.GET("/nodes/:id/neighbors", h.neighbors)
	v1.GET("/nodes/:id/neighborhood", h.neighborhood)

	v1.GET("/rank/:method", h.rank)
	v1.GET("/distribution/:name", h.distribution)

	return r
}
