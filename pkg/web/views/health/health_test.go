package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/testutil"
)

type readyResp struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serve(t *testing.T, h *Handle) readyResp {
	t.Helper()
	e := gin.New()
	e.GET("/ready", h.Ready)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	resp := readyResp{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if resp.Status == "ready" {
		assert.Equal(t, http.StatusOK, w.Code)
	} else {
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
	return resp
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)

	h := NewHealthHandle()
	resp := serve(t, h)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "disabled"}, resp.Checks)

	h.AddProbe("pubchem", func(context.Context) (string, bool) { return stateUnhealthy, false })
	resp = serve(t, h)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Checks["pubchem"])
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/health", NewHealthHandle().Health)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"labmate-api"`)
}
