package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGinMiddlewareLogsAfterHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(error) (string, string) { return "client", "store_not_found" },
	}))
	r.GET("/s/:slug", func(c *gin.Context) {
		ctx := obscontext.WithActor(c.Request.Context(), "seller", "ana@example.com")
		c.Request = c.Request.WithContext(ctx)
		_ = c.Error(errors.New("store_not_found"))
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/s/nope", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "seller", fields["actor_role"])
	assert.Equal(t, "nope", fields["store_slug"])
	assert.Equal(t, "store_not_found", fields["error_code"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/health", func(c *gin.Context) {
		assert.NotEmpty(t, obscontext.RequestIDFromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		status int
		want   zapcore.Level
	}{
		{"health check", "/health", http.StatusOK, zapcore.DebugLevel},
		{"server error", "/api/stores/:store_id/products", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"throttled", "/auth/login", http.StatusTooManyRequests, zapcore.WarnLevel},
		{"shopper miss", "/s/:slug", http.StatusNotFound, zapcore.DebugLevel},
		{"seller miss", "/api/stores/:store_id", http.StatusNotFound, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requestLevel(tt.route, tt.status))
		})
	}
}
