// Package main provides the entry point for the landing site server
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/pomiya/landing/domain/health"
	"github.com/pomiya/landing/domain/site"
	"github.com/pomiya/landing/domain/waitlist"
	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/internal/content"
	"github.com/pomiya/landing/internal/server"
	"github.com/pomiya/landing/pkg/logger"
)

func main() {
	// .env.local overrides .env; Load() won't overwrite existing vars, Overload() will
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		content.Module,
		server.Module,

		// Domain modules
		health.Module,
		waitlist.Module,
		site.Module,
	).Run()
}
