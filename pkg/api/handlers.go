package api

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/metrics"
	"github.com/mchmarny/ppinet/pkg/report"
	"github.com/mchmarny/ppinet/pkg/scoring"
	"github.com/mchmarny/ppinet/pkg/tabular"
)

const (
	maxIDLength = 255
	maxTopK     = 10000
)

type handler struct {
	analyzer *analyzer.Analyzer
	version  string
	topK     int
}

// DegreeResponse is returned by the degree endpoint.
type DegreeResponse struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// NeighborsResponse is returned by the neighbors endpoint.
type NeighborsResponse struct {
	ID        string   `json:"id"`
	Neighbors []string `json:"neighbors"`
}

// RankResponse is returned by the ranking endpoints.
type RankResponse struct {
	Method  scoring.Method `json:"method"`
	K       int            `json:"k"`
	Entries []report.Entry `json:"entries"`
}

// DistributionResponse is returned by the distribution endpoints.
type DistributionResponse struct {
	Name    analyzer.Distribution `json:"name"`
	Values  []float64             `json:"values"`
	Summary report.Summary        `json:"summary"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyzer.Stats())
}

func (h *handler) degree(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.analyzer.Degree(id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, DegreeResponse{ID: id, Degree: d})
}

func (h *handler) neighbors(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := h.analyzer.Neighbors(id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NeighborsResponse{ID: id, Neighbors: n})
}

func (h *handler) neighborhood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.analyzer.Ratio(id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) rank(c *gin.Context) {
	m := scoring.Method(c.Param("method"))
	if m != scoring.MethodMajority && m != scoring.MethodHishigaki {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported method: %s", m))
		return
	}

	k, err := parseK(c.Query("k"), h.topK)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	start := time.Now()
	entries, err := h.analyzer.Rank(c.Request.Context(), m, k)
	if err != nil {
		handleError(c, err)
		return
	}
	metrics.AnalysisDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, RankResponse{Method: m, K: k, Entries: entries})
}

func (h *handler) distribution(c *gin.Context) {
	d := analyzer.Distribution(c.Param("name"))
	if !slices.Contains(analyzer.Distributions, d) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported distribution: %s", d))
		return
	}

	start := time.Now()
	values, err := h.analyzer.Values(c.Request.Context(), d)
	if err != nil {
		handleError(c, err)
		return
	}
	metrics.AnalysisDuration.WithLabelValues(string(d)).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, DistributionResponse{
		Name:    d,
		Values:  values,
		Summary: report.Summarize(values),
	})
}

// pathID normalizes and validates the :id path parameter.
func pathID(c *gin.Context) (string, bool) {
	id := tabular.Normalize(c.Param("id"))
	if id == "" || len(id) > maxIDLength {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid protein id")
		return "", false
	}
	return id, true
}

// parseK reads the k query value. Empty means fallback; zero is a valid,
// empty request.
func parseK(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("k must be a non-negative integer: %s", s)
	}
	return min(v, maxTopK), nil
}
