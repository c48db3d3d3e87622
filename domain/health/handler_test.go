package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomiya/landing/internal/config"
)

func serve(cfg *config.Config, path string) *httptest.ResponseRecorder {
	e := echo.New()
	RegisterRoutes(e, NewHandler(cfg))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.Config
		wantStatus int
		wantState  string
		subscriber string
		analytics  string
	}{
		{
			name: "http provider",
			cfg: &config.Config{Waitlist: config.WaitlistConfig{
				Provider:    "http",
				EndpointURL: "https://example.com/subscribe",
			}},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			subscriber: "healthy",
			analytics:  "disabled",
		},
		{
			name: "mailgun without list",
			cfg: &config.Config{Waitlist: config.WaitlistConfig{
				Provider: "mailgun",
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			subscriber: "unhealthy",
			analytics:  "disabled",
		},
		{
			name: "mixed case mailgun provider",
			cfg: &config.Config{Waitlist: config.WaitlistConfig{
				Provider:    "Mailgun",
				EndpointURL: "https://example.com/subscribe",
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			subscriber: "unhealthy",
			analytics:  "disabled",
		},
		{
			name: "analytics configured",
			cfg: &config.Config{
				Waitlist:  config.WaitlistConfig{Provider: "http", EndpointURL: "https://example.com"},
				Analytics: config.AnalyticsConfig{Enabled: true, MeasurementID: "G-1", APISecret: "s", EventName: "sign_up"},
			},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			subscriber: "healthy",
			analytics:  "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.cfg, "/health")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantState, resp.Status)
			assert.Equal(t, tt.subscriber, resp.Checks["subscriber"].Status)
			assert.Equal(t, tt.analytics, resp.Checks["analytics"].Status)
			assert.NotEmpty(t, resp.Version)
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := serve(&config.Config{}, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestDebug_HiddenInProduction(t *testing.T) {
	rec := serve(&config.Config{Environment: "production"}, "/debug")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(&config.Config{Environment: "local"}, "/debug")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	rec := serve(&config.Config{}, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
