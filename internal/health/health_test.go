package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-dose-reminder/internal/infra/kv"
)

type downPinger struct{}

func (downPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestReadyHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantHealth Status
	}{
		{
			name:       "store reachable",
			checks:     map[string]Pinger{"memory": kv.NewMemoryStore()},
			wantStatus: http.StatusOK,
			wantHealth: StatusHealthy,
		},
		{
			name:       "store down",
			checks:     map[string]Pinger{"redis": downPinger{}},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.checks, "test")

			r := gin.New()
			r.GET("/health/ready", checker.ReadyHandler())

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantHealth, body.Status)
			assert.Equal(t, "test", body.Version)
		})
	}
}

func TestLiveHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/health/live", NewChecker(nil, "test").LiveHandler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
