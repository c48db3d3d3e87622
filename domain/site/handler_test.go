package site

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomiya/landing/domain/waitlist"
	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/internal/content"
	"github.com/pomiya/landing/internal/server"
	"github.com/pomiya/landing/pkg/apperror"
)

type stubSubscriber struct {
	mu     sync.Mutex
	emails []string
	err    error
}

func (s *stubSubscriber) Subscribe(_ context.Context, signup waitlist.Signup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, signup.Email)
	return s.err
}

func (s *stubSubscriber) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emails)
}

func newTestSite(t *testing.T, sub waitlist.Subscriber, limiter *waitlist.ClientRateLimiter) *echo.Echo {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := content.Default()
	require.NoError(t, err)

	cfg := &config.Config{Site: config.SiteConfig{BrandName: "Pomiya", BaseURL: "http://localhost:4002"}}
	flow := waitlist.NewFlow(sub, nil, limiter, waitlist.Options{SourceTag: "landing-page"}, log)

	h := NewHandler(flow, c, cfg, log)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)
	e.IPExtractor = server.ClientIPExtractor(config.ClientIPDirect)
	RegisterRoutes(e, h)
	return e
}

func postForm(e *echo.Echo, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.RemoteAddr = "198.51.100.7:4000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLanding_RendersFormVisible(t *testing.T) {
	e := newTestSite(t, &stubSubscriber{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Meet <span class=\"brand\">Pomiya</span>")
	assert.Contains(t, body, "The Problem")
	assert.Contains(t, body, "Ready to raise your Finagotchi?")
	assert.Contains(t, body, `<form id="waitlist-form"`)
	assert.Contains(t, body, `type="submit"`)
	assert.Contains(t, body, `name="email" value=""`)
	assert.Contains(t, body, "© 2026 Pomiya.")
	assert.NotContains(t, body, "waitlist-confirmed")
}

func TestSubmit_InvalidEmail(t *testing.T) {
	sub := &stubSubscriber{}
	e := newTestSite(t, sub, nil)

	rec := postForm(e, url.Values{"email": {"not-an-email"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Contains(t, body, `type="submit"`)
	assert.Equal(t, 0, sub.calls())
}

func TestSubmit_Success(t *testing.T) {
	sub := &stubSubscriber{}
	e := newTestSite(t, sub, nil)

	rec := postForm(e, url.Values{"email": {" student@uni.edu "}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "🎉 Thank you for joining!")
	assert.NotContains(t, body, "<form")
	assert.NotContains(t, body, `type="submit"`)
	assert.NotContains(t, body, "student@uni.edu")
	require.Equal(t, 1, sub.calls())
	assert.Equal(t, "student@uni.edu", sub.emails[0])
}

func TestSubmit_Rejected(t *testing.T) {
	sub := &stubSubscriber{err: apperror.ErrRejectedByServer}
	e := newTestSite(t, sub, nil)

	rec := postForm(e, url.Values{"email": {"a@b.co"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Something went wrong. Please try again.")
	assert.Contains(t, body, `value="a@b.co"`)
	assert.Contains(t, body, `type="submit"`)
	assert.NotContains(t, body, "waitlist-confirmed")
	assert.Equal(t, 1, sub.calls())
}

func TestSubmit_TransportFailureKeepsPageView(t *testing.T) {
	sub := &stubSubscriber{err: apperror.ErrTransportFailure}
	e := newTestSite(t, sub, nil)

	id := waitlist.NewPageView().ID.String()
	rec := postForm(e, url.Values{"email": {"a@b.co"}, "page_view_id": {id}})

	body := rec.Body.String()
	assert.Contains(t, body, "Error submitting form.")
	assert.Contains(t, body, `name="page_view_id" value="`+id+`"`)
}

func TestSubmit_RateLimited(t *testing.T) {
	sub := &stubSubscriber{err: apperror.ErrRejectedByServer}
	e := newTestSite(t, sub, waitlist.NewClientRateLimiter(1, 1))

	postForm(e, url.Values{"email": {"a@b.co"}})
	rec := postForm(e, url.Values{"email": {"a@b.co"}})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many attempts.")
	assert.Contains(t, rec.Body.String(), `value="a@b.co"`)
	assert.Equal(t, 1, sub.calls())
}

func TestSubmit_RateLimitKeyIgnoresForwardedFor(t *testing.T) {
	sub := &stubSubscriber{err: apperror.ErrRejectedByServer}
	e := newTestSite(t, sub, waitlist.NewClientRateLimiter(1, 1))

	codes := make([]int, 0, 2)
	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(url.Values{"email": {"a@b.co"}}.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.Header.Set(echo.HeaderXForwardedFor, forwarded)
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, sub.calls())
}

// brokenWriter accepts headers but fails every body write
type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header       { return w.header }
func (w *brokenWriter) WriteHeader(int)           {}
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errClientGone }

var errClientGone = errors.New("client went away")

func TestLanding_RenderFailure(t *testing.T) {
	e := newTestSite(t, &stubSubscriber{}, nil)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := content.Default()
	require.NoError(t, err)
	flow := waitlist.NewFlow(&stubSubscriber{}, nil, nil, waitlist.Options{}, log)
	h := NewHandler(flow, c, &config.Config{}, log)

	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), &brokenWriter{header: http.Header{}})
	err = h.Landing(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInternal))
	assert.True(t, errors.Is(err, errClientGone))
}

func TestStaticAssets(t *testing.T) {
	e := newTestSite(t, &stubSubscriber{}, nil)

	for _, path := range []string{"/static/styles.css", "/static/images/level1.svg"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
