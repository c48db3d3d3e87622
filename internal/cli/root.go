// Package cli implements waitlistctl, a terminal client for the signup flow.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pomiya/landing/internal/config"
	"github.com/pomiya/landing/internal/version"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// NewRootCommand builds the command tree with its own viper instance, so
// tests can run it repeatedly without shared state.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "waitlistctl",
		Short: "Command-line client for the waitlist signup flow",
		Long: `waitlistctl runs the landing page signup flow from a terminal.

It validates addresses exactly like the site does and can submit them to the
configured subscription endpoint or Mailgun list. Settings come from flags,
WAITLIST_* environment variables or a YAML config file.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	setDefaults(v)

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.String("output", OutputText, "output format (text, json, yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("provider", "", "subscriber provider (http, mailgun)")
	flags.String("endpoint-url", "", "subscription endpoint URL")
	flags.String("encoding", "", "request body encoding (form, json)")
	flags.String("source-tag", "", "source tag sent with every signup")
	flags.String("campaign-tag", "", "campaign tag sent with every signup")
	flags.Duration("request-timeout", 0, "outbound request timeout, 0 for none")

	// Bind flags to viper for config file and env support
	for key, flag := range map[string]string{
		"output":          "output",
		"debug":           "debug",
		"provider":        "provider",
		"endpoint_url":    "endpoint-url",
		"encoding":        "encoding",
		"source_tag":      "source-tag",
		"campaign_tag":    "campaign-tag",
		"request_timeout": "request-timeout",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newValidateCmd(v),
		newSubscribeCmd(v),
		newContentCmd(),
	)

	return root
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", OutputText)
	v.SetDefault("provider", config.ProviderHTTP)
	v.SetDefault("endpoint_url", "https://pomi-landing-page-server.onrender.com/subscribe")
	v.SetDefault("encoding", config.EncodingForm)
	v.SetDefault("source_tag", "cli")
}

// initConfig reads the config file and environment
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix("WAITLIST")
	v.AutomaticEnv()

	// Mailgun credentials share the server's variable names
	_ = v.BindEnv("mailgun.domain", "MAILGUN_DOMAIN")
	_ = v.BindEnv("mailgun.api_key", "MAILGUN_API_KEY")
	_ = v.BindEnv("mailgun.list_address", "MAILGUN_LIST_ADDRESS")
	_ = v.BindEnv("mailgun.api_base", "MAILGUN_API_BASE")

	switch strings.ToLower(v.GetString("output")) {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", v.GetString("output"))
	}
}

// loadConfig maps viper settings onto the server configuration so the CLI
// builds subscribers the same way the site does.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := &config.Config{
		Waitlist: config.WaitlistConfig{
			Provider:       v.GetString("provider"),
			EndpointURL:    v.GetString("endpoint_url"),
			Encoding:       v.GetString("encoding"),
			SourceTag:      v.GetString("source_tag"),
			CampaignTag:    v.GetString("campaign_tag"),
			RequestTimeout: v.GetDuration("request_timeout"),
		},
		Mailgun: config.MailgunConfig{
			Domain:      v.GetString("mailgun.domain"),
			APIKey:      v.GetString("mailgun.api_key"),
			ListAddress: v.GetString("mailgun.list_address"),
			APIBase:     v.GetString("mailgun.api_base"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func newLogger(v *viper.Viper, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if v.GetBool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
