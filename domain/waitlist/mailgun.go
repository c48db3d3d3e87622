package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/pkg/apperror"
	"github.com/pomiya/landing/pkg/logger"
)

// memberCreator is the slice of the Mailgun client the subscriber needs
type memberCreator interface {
	CreateMember(ctx context.Context, merge bool, addr string, prototype mailgun.Member) error
}

// MailgunSubscriber adds signups to a Mailgun mailing list.
// This is a thin wrapper around the Mailgun SDK.
type MailgunSubscriber struct {
	list    string
	members memberCreator
	log     *slog.Logger
}

// NewMailgunSubscriber creates a subscriber for the configured list
func NewMailgunSubscriber(cfg config.MailgunConfig, log *slog.Logger) *MailgunSubscriber {
	client := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		client.SetAPIBase(cfg.APIBase)
	}

	return &MailgunSubscriber{
		list:    cfg.ListAddress,
		members: client,
		log:     log.With(logger.Scope("waitlist.mailgun")),
	}
}

// Subscribe creates the list member. merge is off so an address that is
// already on the list comes back as a rejection with Mailgun's reason.
func (s *MailgunSubscriber) Subscribe(ctx context.Context, signup Signup) error {
	vars := map[string]interface{}{
		"page_view_id": signup.PageViewID.String(),
	}
	if signup.Source != "" {
		vars["source"] = signup.Source
	}
	if signup.Campaign != "" {
		vars["campaign"] = signup.Campaign
	}

	err := s.members.CreateMember(ctx, false, s.list, mailgun.Member{
		Address:    signup.Email,
		Subscribed: mailgun.Subscribed,
		Vars:       vars,
	})
	if err == nil {
		return nil
	}

	var unexpected *mailgun.UnexpectedResponseError
	if errors.As(err, &unexpected) {
		var envelope map[string]any
		reason := ""
		if json.Unmarshal(unexpected.Data, &envelope) == nil {
			reason = reasonFrom(envelope)
		}
		s.log.Info("mailgun rejected list member",
			slog.Int("status", unexpected.Actual),
			slog.String("reason", reason))
		return rejection(unexpected.Actual, reason)
	}

	s.log.Warn("mailgun request failed", logger.Error(err))
	return apperror.ErrTransportFailure.WithInternal(fmt.Errorf("mailgun create member: %w", err))
}
