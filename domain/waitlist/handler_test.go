package waitlist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomiya/landing/pkg/apperror"
)

func newTestAPI(sub Subscriber, limiter *ClientRateLimiter) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(testLogger())
	RegisterRoutes(e, NewHandler(NewFlow(sub, nil, limiter, testOptions, testLogger())))
	return e
}

func postJSON(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/waitlist", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	return errObj
}

func TestHandler_Subscribe_Success(t *testing.T) {
	sub := &fakeSubscriber{}
	e := newTestAPI(sub, nil)

	rec := postJSON(e, `{"email":"  student@uni.edu "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SubscribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "subscribed", resp.Status)
	assert.Equal(t, MessageConfirmed, resp.Message)
	assert.NotEmpty(t, resp.PageViewID)

	require.Equal(t, 1, sub.count())
	assert.Equal(t, "student@uni.edu", sub.calls[0].Email)
	assert.Equal(t, resp.PageViewID, sub.calls[0].PageViewID.String())
}

func TestHandler_Subscribe_KeepsPageViewID(t *testing.T) {
	sub := &fakeSubscriber{}
	e := newTestAPI(sub, nil)

	id := NewPageView().ID.String()
	rec := postJSON(e, `{"email":"a@b.co","page_view_id":"`+id+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, sub.calls[0].PageViewID.String())
}

func TestHandler_Subscribe_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		subErr     error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "invalid email",
			body:       `{"email":"nope"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "missing email",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation_error",
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "rejected",
			body:       `{"email":"a@b.co"}`,
			subErr:     rejection(409, "already subscribed"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "rejected_by_server",
			wantCalls:  1,
		},
		{
			name:       "transport failure",
			body:       `{"email":"a@b.co"}`,
			subErr:     apperror.ErrTransportFailure,
			wantStatus: http.StatusBadGateway,
			wantCode:   "transport_failure",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubscriber{err: tt.subErr}
			e := newTestAPI(sub, nil)

			rec := postJSON(e, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec)["code"])
			assert.Equal(t, tt.wantCalls, sub.count())
		})
	}
}

func TestHandler_Subscribe_RejectionMessage(t *testing.T) {
	e := newTestAPI(&fakeSubscriber{err: rejection(409, "already subscribed")}, nil)

	rec := postJSON(e, `{"email":"a@b.co"}`)

	assert.Equal(t, "Signup failed: already subscribed", decodeError(t, rec)["message"])
}

func TestHandler_Subscribe_RateLimited(t *testing.T) {
	sub := &fakeSubscriber{}
	e := newTestAPI(sub, NewClientRateLimiter(1, 1))

	require.Equal(t, http.StatusOK, postJSON(e, `{"email":"a@b.co"}`).Code)

	rec := postJSON(e, `{"email":"c@d.co"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too_many_requests", decodeError(t, rec)["code"])
	assert.Equal(t, 1, sub.count(), "a limited attempt makes no outbound call")
}
