package health

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/internal/version"
)

// Handler handles health check requests
type Handler struct {
	cfg     *config.Config
	startAt time.Time
}

// NewHandler creates a new health handler
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		cfg:     cfg,
		startAt: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health reports the service and how its collaborators are configured.
// The subscription endpoint is not called: probing it would count as a
// signup attempt on some backends.
func (h *Handler) Health(c echo.Context) error {
	provider := strings.ToLower(h.cfg.Waitlist.Provider)
	subscriber := Check{Status: "healthy", Message: provider}
	switch provider {
	case config.ProviderMailgun:
		if !h.cfg.Mailgun.IsConfigured() {
			subscriber = Check{Status: "unhealthy", Message: "mailgun list not configured"}
		}
	default:
		if h.cfg.Waitlist.EndpointURL == "" {
			subscriber = Check{Status: "unhealthy", Message: "endpoint not configured"}
		}
	}

	analytics := Check{Status: "disabled"}
	if h.cfg.Analytics.IsConfigured() {
		analytics = Check{Status: "healthy", Message: h.cfg.Analytics.EventName}
	}

	overallStatus := "healthy"
	if subscriber.Status == "unhealthy" {
		overallStatus = "unhealthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startAt).String(),
		Version:   version.String(),
		Checks: map[string]Check{
			"subscriber": subscriber,
			"analytics":  analytics,
		},
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, response)
}

// Healthz returns a simple health check (for k8s liveness probe)
func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Debug returns runtime information outside production
func (h *Handler) Debug(c echo.Context) error {
	if h.cfg.Environment == "production" {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, map[string]any{
		"go_version":  runtime.Version(),
		"goroutines":  runtime.NumGoroutine(),
		"heap_alloc":  mem.HeapAlloc,
		"num_gc":      mem.NumGC,
		"environment": h.cfg.Environment,
		"provider":    h.cfg.Waitlist.Provider,
		"encoding":    h.cfg.Waitlist.Encoding,
	})
}
