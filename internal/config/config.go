package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds all application configuration
type Config struct {
	// Server settings
	ServerPort    int    `env:"SERVER_PORT" envDefault:"4002"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	Site      SiteConfig
	Waitlist  WaitlistConfig
	Analytics AnalyticsConfig
	Mailgun   MailgunConfig

	// Origins allowed to call /api/waitlist from the browser
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`

	// Where the client address comes from. Forwarding headers are only
	// honoured when set, and only from private or loopback peers.
	ClientIPSource string `env:"CLIENT_IP_SOURCE" envDefault:"direct"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// SiteConfig holds the presentation settings of the landing page
type SiteConfig struct {
	BrandName string `env:"SITE_BRAND_NAME" envDefault:"Pomiya"`
	// Optional YAML file replacing the embedded marketing copy
	ContentPath string `env:"SITE_CONTENT_PATH"`
	BaseURL     string `env:"SITE_BASE_URL" envDefault:"http://localhost:4002"`
}

// Sources for the client address used by the submit rate limiter
const (
	ClientIPDirect = "direct"
	ClientIPXFF    = "x-forwarded-for"
	ClientIPRealIP = "x-real-ip"
)

// Waitlist providers
const (
	ProviderHTTP    = "http"
	ProviderMailgun = "mailgun"
)

// Outbound body encodings for the HTTP provider
const (
	EncodingForm = "form"
	EncodingJSON = "json"
)

// WaitlistConfig describes the subscription endpoint and the static
// provenance tags sent with every signup
type WaitlistConfig struct {
	Provider    string `env:"WAITLIST_PROVIDER" envDefault:"http"`
	EndpointURL string `env:"WAITLIST_ENDPOINT_URL" envDefault:"https://pomi-landing-page-server.onrender.com/subscribe"`
	Encoding    string `env:"WAITLIST_ENCODING" envDefault:"form"`
	SourceTag   string `env:"WAITLIST_SOURCE_TAG" envDefault:"landing-page"`
	CampaignTag string `env:"WAITLIST_CAMPAIGN_TAG"`

	// Zero leaves the transport's own behaviour in place
	RequestTimeout time.Duration `env:"WAITLIST_REQUEST_TIMEOUT" envDefault:"0s"`

	// Per-client submit attempts per minute, zero disables the limiter
	RateLimitPerMinute int `env:"WAITLIST_RATE_LIMIT_PER_MINUTE" envDefault:"0"`
	RateLimitBurst     int `env:"WAITLIST_RATE_LIMIT_BURST" envDefault:"3"`
}

// AnalyticsConfig holds the conversion tracking collaborator (GA4 Measurement Protocol)
type AnalyticsConfig struct {
	Enabled       bool   `env:"ANALYTICS_ENABLED" envDefault:"false"`
	MeasurementID string `env:"GA_MEASUREMENT_ID"`
	APISecret     string `env:"GA_API_SECRET"`
	Endpoint      string `env:"ANALYTICS_ENDPOINT" envDefault:"https://www.google-analytics.com/mp/collect"`
	EventName     string `env:"ANALYTICS_EVENT_NAME" envDefault:"sign_up"`
}

// IsConfigured returns true if conversion events can be delivered
func (a *AnalyticsConfig) IsConfigured() bool {
	return a.Enabled && a.MeasurementID != "" && a.APISecret != ""
}

// MailgunConfig holds the mailing list used by the mailgun provider
type MailgunConfig struct {
	Domain      string `env:"MAILGUN_DOMAIN"`
	APIKey      string `env:"MAILGUN_API_KEY"`
	ListAddress string `env:"MAILGUN_LIST_ADDRESS"`
	// Override for the EU region or tests, e.g. https://api.eu.mailgun.net/v3
	APIBase string `env:"MAILGUN_API_BASE"`
}

// IsConfigured returns true if Mailgun credentials and a list are present
func (m *MailgunConfig) IsConfigured() bool {
	return m.Domain != "" && m.APIKey != "" && m.ListAddress != ""
}

// Validate reports configuration combinations the site cannot run with
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Waitlist.Provider) {
	case ProviderHTTP:
		u, err := url.Parse(c.Waitlist.EndpointURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("WAITLIST_ENDPOINT_URL must be an absolute http(s) URL, got %q", c.Waitlist.EndpointURL))
		}
		switch strings.ToLower(c.Waitlist.Encoding) {
		case EncodingForm, EncodingJSON:
		default:
			errs = append(errs, fmt.Errorf("WAITLIST_ENCODING must be %q or %q, got %q", EncodingForm, EncodingJSON, c.Waitlist.Encoding))
		}
	case ProviderMailgun:
		if !c.Mailgun.IsConfigured() {
			errs = append(errs, errors.New("WAITLIST_PROVIDER=mailgun requires MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_LIST_ADDRESS"))
		}
	default:
		errs = append(errs, fmt.Errorf("WAITLIST_PROVIDER must be %q or %q, got %q", ProviderHTTP, ProviderMailgun, c.Waitlist.Provider))
	}

	switch strings.ToLower(c.ClientIPSource) {
	case "", ClientIPDirect, ClientIPXFF, ClientIPRealIP:
	default:
		errs = append(errs, fmt.Errorf("CLIENT_IP_SOURCE must be %q, %q or %q, got %q", ClientIPDirect, ClientIPXFF, ClientIPRealIP, c.ClientIPSource))
	}

	if c.Waitlist.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("WAITLIST_RATE_LIMIT_PER_MINUTE must not be negative"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerAddress, c.ServerPort)
}

// Load parses the environment without logging, for tools and tests
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	log.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("brand", cfg.Site.BrandName),
		slog.String("waitlist_provider", cfg.Waitlist.Provider),
		slog.Bool("analytics", cfg.Analytics.IsConfigured()),
	)

	return cfg, nil
}
