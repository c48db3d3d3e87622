package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/pkg/apperror"
	"github.com/pomiya/landing/pkg/logger"
)

// Subscriber delivers one signup to the remote list. Implementations make
// exactly one outbound call per invocation and report failures as
// apperror.ErrRejectedByServer or apperror.ErrTransportFailure.
type Subscriber interface {
	Subscribe(ctx context.Context, signup Signup) error
}

// NewSubscriber picks the subscriber for the configured provider
func NewSubscriber(cfg *config.Config, log *slog.Logger) (Subscriber, error) {
	switch strings.ToLower(cfg.Waitlist.Provider) {
	case config.ProviderMailgun:
		return NewMailgunSubscriber(cfg.Mailgun, log), nil
	case config.ProviderHTTP, "":
		return NewHTTPSubscriber(HTTPSubscriberConfig{
			EndpointURL: cfg.Waitlist.EndpointURL,
			Encoding:    cfg.Waitlist.Encoding,
			Timeout:     cfg.Waitlist.RequestTimeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown waitlist provider %q", cfg.Waitlist.Provider)
	}
}

// HTTPSubscriberConfig configures the plain HTTP subscription endpoint
type HTTPSubscriberConfig struct {
	EndpointURL string
	Encoding    string
	// Zero means no client-side timeout
	Timeout time.Duration
	// Optional base client, mostly for tests
	HTTPClient *http.Client
}

// HTTPSubscriber posts signups to a remote endpoint with resty
type HTTPSubscriber struct {
	client   *resty.Client
	endpoint string
	encoding string
	log      *slog.Logger
}

// NewHTTPSubscriber creates a subscriber for the given endpoint. Retries
// stay disabled: one submit is one request.
func NewHTTPSubscriber(cfg HTTPSubscriberConfig, log *slog.Logger) *HTTPSubscriber {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetRetryCount(0)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")
	client.SetLogger(restyLogger{log: log.With(logger.Scope("waitlist.http"))})

	encoding := strings.ToLower(cfg.Encoding)
	if encoding == "" {
		encoding = config.EncodingForm
	}

	return &HTTPSubscriber{
		client:   client,
		endpoint: cfg.EndpointURL,
		encoding: encoding,
		log:      log.With(logger.Scope("waitlist.http")),
	}
}

// Subscribe sends the signup and classifies the response
func (s *HTTPSubscriber) Subscribe(ctx context.Context, signup Signup) error {
	req := s.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", signup.PageViewID.String())

	if s.encoding == config.EncodingJSON {
		req.SetHeader("Content-Type", "application/json").SetBody(signupBody(signup))
	} else {
		req.SetFormData(signupBody(signup))
	}

	resp, err := req.Post(s.endpoint)
	if err != nil {
		s.log.Warn("subscription request failed",
			slog.String("page_view_id", signup.PageViewID.String()),
			logger.Error(err),
		)
		return apperror.ErrTransportFailure.WithInternal(fmt.Errorf("post %s: %w", s.endpoint, err))
	}

	return classifyResponse(resp.StatusCode(), resp.Header().Get("Content-Type"), resp.Body())
}

func signupBody(signup Signup) map[string]string {
	body := map[string]string{"email": signup.Email}
	if signup.Source != "" {
		body["source"] = signup.Source
	}
	if signup.Campaign != "" {
		body["campaign"] = signup.Campaign
	}
	return body
}

// classifyResponse maps an endpoint response onto the three outcomes.
// Any 2xx is accepted unless its JSON body says "success": false or cannot
// be parsed at all. Everything else is a rejection, carrying the endpoint's
// reason when it gave one.
func classifyResponse(status int, contentType string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	isJSON := strings.Contains(strings.ToLower(contentType), "json")

	if status >= 200 && status < 300 {
		if !isJSON || len(trimmed) == 0 {
			return nil
		}
		var envelope map[string]any
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return apperror.ErrTransportFailure.WithInternal(fmt.Errorf("malformed response body: %w", err))
		}
		if ok, present := envelope["success"].(bool); present && !ok {
			return rejection(status, reasonFrom(envelope))
		}
		return nil
	}

	var envelope map[string]any
	if len(trimmed) > 0 && json.Unmarshal(trimmed, &envelope) == nil {
		return rejection(status, reasonFrom(envelope))
	}
	return rejection(status, "")
}

func rejection(status int, reason string) error {
	err := apperror.ErrRejectedByServer.
		WithInternal(fmt.Errorf("endpoint responded with status %d", status)).
		WithDetails(map[string]any{"status": status})
	if reason != "" {
		err.Message = rejectionPrefix + reason
	}
	return err
}

// reasonFrom picks the first non-empty failure reason from the shapes
// subscription backends commonly return.
func reasonFrom(envelope map[string]any) string {
	if s, ok := envelope["message"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	switch e := envelope["error"].(type) {
	case string:
		if strings.TrimSpace(e) != "" {
			return strings.TrimSpace(e)
		}
	case map[string]any:
		if s, ok := e["message"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if s, ok := envelope["detail"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return ""
}

// restyLogger routes resty's own diagnostics into slog
type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
