package site

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pomiya/landing/domain/waitlist"
	"github.com/pomiya/landing/internal/components"
	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/internal/content"
	"github.com/pomiya/landing/pkg/apperror"
	"github.com/pomiya/landing/pkg/logger"
)

// Handler renders the landing page and handles the signup form post
type Handler struct {
	flow    *waitlist.Flow
	content *content.Content
	site    config.SiteConfig
	log     *slog.Logger
	now     func() time.Time
}

// NewHandler creates a new site handler
func NewHandler(flow *waitlist.Flow, c *content.Content, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{
		flow:    flow,
		content: c,
		site:    cfg.Site,
		log:     log.With(logger.Scope("site")),
		now:     time.Now,
	}
}

// Landing renders a fresh page view with the form visible
func (h *Handler) Landing(c echo.Context) error {
	return h.render(c, http.StatusOK, waitlist.NewPageView(), waitlist.Notification{})
}

// Submit handles one form submit and re-renders the page in the resulting
// state: the form with a notification and the typed value, or the
// acknowledgment without a form.
func (h *Handler) Submit(c echo.Context) error {
	pv := waitlist.RestorePageView(c.FormValue("page_view_id"))
	raw := c.FormValue("email")

	if err := h.flow.Allow(c.RealIP()); err != nil {
		pv.Email = raw
		return h.render(c, http.StatusTooManyRequests, pv, waitlist.NotificationFor(err))
	}

	note, _ := h.flow.Submit(c.Request().Context(), pv, raw)
	return h.render(c, http.StatusOK, pv, note)
}

func (h *Handler) render(c echo.Context, status int, pv *waitlist.PageView, note waitlist.Notification) error {
	view := components.WaitlistView{
		Confirmed:  pv.Confirmed(),
		PageViewID: pv.ID.String(),
		Email:      pv.Email,
	}
	if pv.Confirmed() {
		view.Acknowledgment = waitlist.MessageConfirmed
	} else if !note.IsZero() {
		view.Notice = note.Message
		view.NoticeIsError = note.Kind == waitlist.NotificationError
	}

	page := components.Layout(
		components.PageConfig{
			Title:       h.content.Title,
			Description: h.content.Description,
			BaseURL:     h.site.BaseURL,
		},
		components.Hero(h.site.BrandName, h.content.Hero),
		components.Problem(h.content.Problem),
		components.Solution(h.content.Solution),
		components.HowItWorks(h.content.HowItWorks),
		components.WhyItWorks(h.content.WhyItWorks),
		components.WaitlistCTA(h.content.CTA, view),
		components.PageFooter(h.site.BrandName, h.content.Footer.Note, h.now().Year()),
	)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().WriteHeader(status)
	if err := page.Render(c.Response()); err != nil {
		h.log.Error("failed to render landing page", logger.Error(err))
		return apperror.NewInternal("Failed to render page", err)
	}
	return nil
}
