package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twpulse/internal/infrastructure"
)

// newTestApplication builds one full application wired from defaults. OTel
// metric registration is global, so every test shares this instance.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	t.Setenv("TWPULSE_LOGGING_OUTPUT", "console")
	t.Setenv("TWPULSE_LOGGING_LEVEL", "error")
	infrastructure.ResetLoggerForTesting()

	app, err := NewApplication()
	require.NoError(t, err)
	t.Cleanup(func() {
		if app.Redis != nil {
			app.Redis.Close()
		}
	})
	return app
}

func TestApplicationWiring(t *testing.T) {
	app := newTestApplication(t)

	require.NotNil(t, app.Config)
	require.NotNil(t, app.Router)
	require.NotNil(t, app.Server)
	require.NotNil(t, app.SnapshotService)
	require.NotNil(t, app.CardService)
	require.NotNil(t, app.HealthService)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK},
		{"readiness before first build", http.MethodGet, "/api/health/ready", http.StatusServiceUnavailable},
		{"version", http.MethodGet, "/api/version", http.StatusOK},
		{"cards without client", http.MethodGet, "/api/cards", http.StatusBadRequest},
		{"cards before first build", http.MethodGet, "/api/cards?client=test-1", http.StatusServiceUnavailable},
		{"snapshot before first build", http.MethodGet, "/api/snapshot", http.StatusServiceUnavailable},
		{"prometheus metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestApplicationSecurityHeaders(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
