package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mchmarny/ppinet/pkg/analyzer"
	"github.com/mchmarny/ppinet/pkg/annotation"
	"github.com/mchmarny/ppinet/pkg/api"
	"github.com/mchmarny/ppinet/pkg/network"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter serves the A-B-C-D chain with B annotated and LONE isolated.
func newTestRouter() *gin.Engine {
	g := network.NewGraph([]network.Edge{
		{A: "A", B: "B", Weight: 0.9},
		{A: "B", B: "C", Weight: 0.8},
		{A: "C", B: "D", Weight: 0.7},
	}, "LONE")
	a := analyzer.New(g, annotation.NewKnownSet("B"), 1)

	return api.NewRouter(&api.RouterDeps{
		Analyzer: a,
		Version:  "test-v1",
		TopK:     2,
	})
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
