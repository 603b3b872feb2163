package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-backend/internal/config"
)

type stubPoolStats struct {
	stats map[string]interface{}
	err   error
}

func (s *stubPoolStats) Stats() (map[string]interface{}, error) {
	return s.stats, s.err
}

func newReadinessContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	return c, recorder
}

func TestReadinessCheckReportsPoolStats(t *testing.T) {
	s := &Server{
		config: &config.Config{},
		stats: &stubPoolStats{stats: map[string]interface{}{
			"open_connections": 3,
			"in_use":           1,
			"idle":             2,
		}},
		startedAt: time.Now(),
	}

	c, recorder := newReadinessContext(t)
	s.readinessCheck(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])

	dbStats, ok := body["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), dbStats["open_connections"])
}

func TestReadinessCheckUnavailableWhenPoolStatsFail(t *testing.T) {
	s := &Server{
		config:    &config.Config{},
		stats:     &stubPoolStats{err: errors.New("driver: bad connection")},
		startedAt: time.Now(),
	}

	c, recorder := newReadinessContext(t)
	s.readinessCheck(c)

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "not ready")
}
