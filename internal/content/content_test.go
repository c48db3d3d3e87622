package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Meet", c.Hero.Lead)
	assert.Equal(t, "The Problem", c.Problem.Title)
	assert.Len(t, c.HowItWorks.Items, 4)
	assert.Len(t, c.WhyItWorks.Items, 3)
	assert.Equal(t, "Enter your email", c.CTA.Placeholder)
	assert.Equal(t, "🚀 Join Beta", c.CTA.Button)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: "Acme"
cta:
  title: "Join"
  button: "Go"
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Title)
	assert.Equal(t, "Go", c.CTA.Button)
	assert.Empty(t, c.HowItWorks.Items)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad yaml", "title: [", "failed to parse site content"},
		{"missing title", "cta: {title: x, button: y}", "title is required"},
		{"missing button", "title: x\ncta: {title: y}", "cta.button is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
