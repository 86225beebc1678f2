package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cwms_shell/internal/deployment"
	"cwms_shell/internal/login"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	d, err := deployment.Lookup("cwms-data")
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = CustomErrorHandler(d, login.DefaultGate, false, zap.NewNop())
	e.GET("/cwms-data/boom", func(c echo.Context) error {
		return errors.New("database password is hunter2")
	})
	e.GET("/cwms-data/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "office must be three letters")
	})
	return e
}

func serve(e *echo.Echo, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Host = "localhost:8080"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandlerRendersPageInChrome(t *testing.T) {
	e := newEcho(t)
	rec := serve(e, http.MethodGet, "/cwms-data/missing/thing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Page Not Found | CWMS Data API</title>")
	assert.Contains(t, body, "doesn&#39;t exist")
	assert.Contains(t, body, `id="login"`)
	assert.Contains(t, body, "missing")
	assert.Contains(t, body, `class="incident"`)
	assert.Contains(t, body, `href="/cwms-data/"`)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	e := newEcho(t)
	rec := serve(e, http.MethodGet, "/cwms-data/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestErrorHandlerJSON(t *testing.T) {
	e := newEcho(t)
	rec := serve(e, http.MethodGet, "/cwms-data/bad", map[string]string{echo.HeaderAccept: "application/json"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "office must be three letters", body.Message)
	_, err := uuid.Parse(body.IncidentIdentifier)
	assert.NoError(t, err)
}

func TestErrorHandlerIncidentIsUnique(t *testing.T) {
	e := newEcho(t)
	accept := map[string]string{echo.HeaderAccept: "application/json"}

	var a, b ErrorBody
	require.NoError(t, json.Unmarshal(serve(e, http.MethodGet, "/nope", accept).Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(serve(e, http.MethodGet, "/nope", accept).Body.Bytes(), &b))
	assert.NotEqual(t, a.IncidentIdentifier, b.IncidentIdentifier)
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept   string
		expected bool
	}{
		{"application/json", true},
		{"application/json;version=2", true},
		{"text/html,application/xhtml+xml,application/json;q=0.9", false},
		{"*/*", false},
		{"", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAccept, tt.accept)
		assert.Equal(t, tt.expected, wantsJSON(req), tt.accept)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := serve(e, http.MethodGet, "/", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
}

func TestMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/cwms-data/*", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/teapot", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })
	e.GET("/metrics", m.Handler())

	serve(e, http.MethodGet, "/cwms-data/a", nil)
	serve(e, http.MethodGet, "/cwms-data/b", nil)
	serve(e, http.MethodGet, "/teapot", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/cwms-data/*", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/teapot", "418")))

	rec := serve(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "cwms_shell_requests_total"))
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	serve(e, http.MethodGet, "/ok?x=1", nil)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ok?x=1", fields["uri"])
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}
