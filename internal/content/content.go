// Package content loads the marketing copy of the landing page.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/pomiya/landing/internal/config"
)

//go:embed content.yaml
var defaultContent []byte

var Module = fx.Module("content",
	fx.Provide(NewContent),
)

// Content is the copy rendered by the landing page components
type Content struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Hero        Hero    `yaml:"hero"`
	Problem     Section `yaml:"problem"`
	Solution    Section `yaml:"solution"`
	HowItWorks  List    `yaml:"how_it_works"`
	WhyItWorks  List    `yaml:"why_it_works"`
	CTA         CTA     `yaml:"cta"`
	Footer      Footer  `yaml:"footer"`
}

type Hero struct {
	Lead        string `yaml:"lead"`
	BrandSuffix string `yaml:"brand_suffix"`
	Tagline     string `yaml:"tagline"`
	Image       string `yaml:"image"`
	ImageAlt    string `yaml:"image_alt"`
}

type Section struct {
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Image    string `yaml:"image,omitempty"`
	ImageAlt string `yaml:"image_alt,omitempty"`
}

type Item struct {
	Icon string `yaml:"icon"`
	Text string `yaml:"text"`
}

type List struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items"`
}

type CTA struct {
	Title       string `yaml:"title"`
	Body        string `yaml:"body"`
	Placeholder string `yaml:"placeholder"`
	Button      string `yaml:"button"`
}

type Footer struct {
	Note string `yaml:"note"`
}

// Default returns the embedded copy
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Parse decodes YAML copy and checks the fields the page cannot do without
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads copy from path, or the embedded default when path is empty
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site content %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Content) validate() error {
	var errs []error
	if c.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if c.CTA.Title == "" {
		errs = append(errs, errors.New("cta.title is required"))
	}
	if c.CTA.Button == "" {
		errs = append(errs, errors.New("cta.button is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid site content: %w", err)
	}
	return nil
}

// NewContent loads the copy configured by SITE_CONTENT_PATH
func NewContent(cfg *config.Config, log *slog.Logger) (*Content, error) {
	c, err := Load(cfg.Site.ContentPath)
	if err != nil {
		return nil, err
	}
	source := "embedded"
	if cfg.Site.ContentPath != "" {
		source = cfg.Site.ContentPath
	}
	log.Info("site content loaded", slog.String("source", source))
	return c, nil
}
