package waitlist

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/pkg/logger"
)

// Module provides the signup flow, its collaborators and the JSON API
var Module = fx.Module("waitlist",
	fx.Provide(
		NewSubscriber, // HTTP endpoint or Mailgun list, by WAITLIST_PROVIDER
		NewTracker,    // GA4 when configured, otherwise no-op
		newRateLimiterFromConfig,
		OptionsFromConfig,
		NewFlow,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes, RegisterLifecycle),
)

// RegisterRoutes registers the waitlist API routes
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// POST /api/waitlist - JSON signup for script clients
	e.POST("/api/waitlist", h.Subscribe)
}

func newRateLimiterFromConfig(cfg *config.Config) *ClientRateLimiter {
	return NewClientRateLimiter(cfg.Waitlist.RateLimitPerMinute, cfg.Waitlist.RateLimitBurst)
}

// limiterPruneInterval is how often idle client buckets are dropped
const limiterPruneInterval = 5 * time.Minute

// RegisterLifecycle prunes the rate limiter in the background and drains
// pending conversion signals on shutdown.
func RegisterLifecycle(lc fx.Lifecycle, limiter *ClientRateLimiter, tracker Tracker, log *slog.Logger) {
	log = log.With(logger.Scope("waitlist"))
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if limiter == nil {
				return nil
			}
			go func() {
				ticker := time.NewTicker(limiterPruneInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := limiter.Prune(); n > 0 {
							log.Debug("pruned idle rate limiter buckets", slog.Int("count", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			if err := tracker.Close(ctx); err != nil {
				log.Warn("conversion signals still in flight at shutdown", logger.Error(err))
			}
			return nil
		},
	})
}
