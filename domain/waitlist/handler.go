package waitlist

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pomiya/landing/pkg/apperror"
)

// Handler serves the JSON signup API used by script-driven forms
type Handler struct {
	flow *Flow
}

// NewHandler creates a new waitlist handler
func NewHandler(flow *Flow) *Handler {
	return &Handler{flow: flow}
}

// SubscribeRequest is the body of POST /api/waitlist
type SubscribeRequest struct {
	Email      string `json:"email" form:"email"`
	PageViewID string `json:"page_view_id,omitempty" form:"page_view_id"`
}

// SubscribeResponse is returned when the signup was accepted
type SubscribeResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PageViewID string `json:"page_view_id"`
}

// Subscribe runs one submit action and reports the outcome as JSON.
// Failures are returned as app errors and rendered by the error handler.
func (h *Handler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Request body must be a JSON object with an email field")
	}

	if err := h.flow.Allow(c.RealIP()); err != nil {
		return err
	}

	pv := RestorePageView(req.PageViewID)
	note, err := h.flow.Submit(c.Request().Context(), pv, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SubscribeResponse{
		Status:     "subscribed",
		Message:    note.Message,
		PageViewID: pv.ID.String(),
	})
}
