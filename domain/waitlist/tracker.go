package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/pkg/logger"
)

// Conversion is the signal emitted after a successful signup
type Conversion struct {
	PageViewID uuid.UUID
	Source     string
	Campaign   string
}

// Tracker emits conversion signals. Track must not block the caller and its
// failures never reach the visitor.
type Tracker interface {
	Track(c Conversion)
	Close(ctx context.Context) error
}

// NewTracker returns a GA4 tracker when analytics are configured and a
// no-op tracker otherwise.
func NewTracker(cfg *config.Config, log *slog.Logger) Tracker {
	if !cfg.Analytics.IsConfigured() {
		if cfg.Analytics.Enabled {
			log.Warn("analytics enabled without GA_MEASUREMENT_ID and GA_API_SECRET, conversions will not be sent")
		}
		return noopTracker{}
	}
	return NewGA4Tracker(cfg.Analytics, nil, log)
}

type noopTracker struct{}

func (noopTracker) Track(Conversion)            {}
func (noopTracker) Close(context.Context) error { return nil }

// ga4SendTimeout bounds a single background conversion post
const ga4SendTimeout = 5 * time.Second

// GA4Tracker posts conversion events to the GA4 Measurement Protocol on
// background goroutines. Close waits for the ones in flight.
type GA4Tracker struct {
	client    *resty.Client
	endpoint  string
	eventName string
	log       *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewGA4Tracker creates a tracker; httpClient may be nil
func NewGA4Tracker(cfg config.AnalyticsConfig, httpClient *http.Client, log *slog.Logger) *GA4Tracker {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}
	client.SetTimeout(ga4SendTimeout)
	client.SetQueryParams(map[string]string{
		"measurement_id": cfg.MeasurementID,
		"api_secret":     cfg.APISecret,
	})
	client.SetLogger(restyLogger{log: log.With(logger.Scope("waitlist.analytics"))})

	eventName := cfg.EventName
	if eventName == "" {
		eventName = "sign_up"
	}

	return &GA4Tracker{
		client:    client,
		endpoint:  cfg.Endpoint,
		eventName: eventName,
		log:       log.With(logger.Scope("waitlist.analytics")),
	}
}

type ga4Payload struct {
	ClientID string     `json:"client_id"`
	Events   []ga4Event `json:"events"`
}

type ga4Event struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

// Track queues the conversion and returns immediately
func (t *GA4Tracker) Track(c Conversion) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), ga4SendTimeout)
		defer cancel()
		if err := t.send(ctx, c); err != nil {
			ConversionsDropped.Inc()
			t.log.Warn("conversion signal failed",
				slog.String("page_view_id", c.PageViewID.String()),
				logger.Error(err))
		}
	}()
}

func (t *GA4Tracker) send(ctx context.Context, c Conversion) error {
	params := map[string]string{"method": "email"}
	if c.Source != "" {
		params["source"] = c.Source
	}
	if c.Campaign != "" {
		params["campaign"] = c.Campaign
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ga4Payload{
			ClientID: c.PageViewID.String(),
			Events:   []ga4Event{{Name: t.eventName, Params: params}},
		}).
		Post(t.endpoint)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("measurement protocol responded with status %d", resp.StatusCode())
	}
	return nil
}

// Close stops accepting signals and waits for in-flight ones or ctx
func (t *GA4Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
