package waitlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/pkg/apperror"
	"github.com/pomiya/landing/pkg/logger"
)

// Flow runs submit actions: validate, subscribe once, then move the page
// view to Submitted or leave it as it was with a notification.
type Flow struct {
	subscriber Subscriber
	tracker    Tracker
	limiter    *ClientRateLimiter
	opts       Options
	log        *slog.Logger
}

// NewFlow creates a flow. tracker and limiter may be nil.
func NewFlow(subscriber Subscriber, tracker Tracker, limiter *ClientRateLimiter, opts Options, log *slog.Logger) *Flow {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &Flow{
		subscriber: subscriber,
		tracker:    tracker,
		limiter:    limiter,
		opts:       opts,
		log:        log.With(logger.Scope("waitlist")),
	}
}

// OptionsFromConfig collects the provenance tags of the flow
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SourceTag:   cfg.Waitlist.SourceTag,
		CampaignTag: cfg.Waitlist.CampaignTag,
	}
}

// Allow applies the per-client attempt limit. A refused attempt gets
// apperror.ErrTooManyRequests and must not reach Submit.
func (f *Flow) Allow(clientKey string) error {
	if f.limiter.Allow(clientKey) {
		return nil
	}
	SubmissionsTotal.WithLabelValues(OutcomeRateLimited).Inc()
	f.log.Info("submit attempt rate limited", slog.String("client", clientKey))
	return apperror.ErrTooManyRequests
}

// Submit runs one submit action for pv with the raw field value.
//
// On success the field is cleared, the page view becomes Submitted and a
// conversion is signalled. On any failure the field keeps raw, the state is
// unchanged and the returned notification carries the visitor message.
// A page view that is already Submitted makes no outbound call.
func (f *Flow) Submit(ctx context.Context, pv *PageView, raw string) (Notification, error) {
	if pv.State == Submitted {
		SubmissionsTotal.WithLabelValues(OutcomeAlreadySubmitted).Inc()
		return NotificationFor(apperror.ErrAlreadySubmitted), apperror.ErrAlreadySubmitted
	}

	pv.Email = raw

	email, err := NormalizeEmail(raw)
	if err != nil {
		SubmissionsTotal.WithLabelValues(OutcomeValidationError).Inc()
		return NotificationFor(err), err
	}

	signup := Signup{
		Email:      email,
		Source:     f.opts.SourceTag,
		Campaign:   f.opts.CampaignTag,
		PageViewID: pv.ID,
	}

	start := time.Now()
	err = f.subscriber.Subscribe(ctx, signup)
	SubscribeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		appErr := classify(err)
		SubmissionsTotal.WithLabelValues(outcomeOf(appErr)).Inc()
		f.log.Info("waitlist submission failed",
			slog.String("page_view_id", pv.ID.String()),
			slog.String("code", appErr.Code),
			logger.Error(err))
		return NotificationFor(appErr), appErr
	}

	pv.Email = ""
	pv.State = Submitted
	SubmissionsTotal.WithLabelValues(OutcomeSuccess).Inc()
	f.log.Info("waitlist signup accepted", slog.String("page_view_id", pv.ID.String()))

	f.tracker.Track(Conversion{
		PageViewID: pv.ID,
		Source:     signup.Source,
		Campaign:   signup.Campaign,
	})

	return Notification{Kind: NotificationSuccess, Message: MessageConfirmed}, nil
}

// NotificationFor turns a submit error into the message shown to the visitor
func NotificationFor(err error) Notification {
	if err == nil {
		return Notification{Kind: NotificationSuccess, Message: MessageConfirmed}
	}
	return Notification{Kind: NotificationError, Message: classify(err).Message}
}

// classify makes sure every failure ends up as one of the visitor-facing
// app errors. Anything unrecognised is a transport failure.
func classify(err error) *apperror.Error {
	if appErr, ok := apperror.As(err); ok {
		switch appErr.Code {
		case apperror.ErrValidation.Code,
			apperror.ErrRejectedByServer.Code,
			apperror.ErrTransportFailure.Code,
			apperror.ErrTooManyRequests.Code,
			apperror.ErrAlreadySubmitted.Code:
			return appErr
		}
	}
	return apperror.ErrTransportFailure.WithInternal(err)
}

func outcomeOf(err *apperror.Error) string {
	switch {
	case errors.Is(err, apperror.ErrRejectedByServer):
		return OutcomeRejected
	case errors.Is(err, apperror.ErrValidation):
		return OutcomeValidationError
	default:
		return OutcomeTransportFailure
	}
}
