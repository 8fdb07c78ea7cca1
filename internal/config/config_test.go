package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/appsimple/internal/typewriter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appsimple.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 70, cfg.Typing.BaseSpeedMS)
	assert.Equal(t, "typing-text", cfg.Typing.Target)
	assert.Contains(t, cfg.Server.CaseStudies, "livewire")
	assert.Equal(t, 1500*time.Millisecond, cfg.Typing.Stagger())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
typing:
  text: "Hi AppSimple."
  base_speed_ms: 40
  thinking_ms: [100, 150]
specials:
  - token: AppSimple
    url: https://appsimple.io
    style: brand
options:
  - title: Consulting
    description: Strategy and delivery.
logging:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "templates", cfg.Server.TemplatesDir, "unset keys keep defaults")
	assert.Equal(t, "Hi AppSimple.", cfg.Typing.Text)
	assert.Equal(t, 40, cfg.Typing.BaseSpeedMS)
	assert.Equal(t, [2]int{100, 150}, cfg.Typing.ThinkingMS)
	assert.InDelta(t, 0.3, cfg.Typing.SpeedVariation, 1e-9)
	require.Len(t, cfg.Specials, 1)
	require.Len(t, cfg.Options, 1)
	assert.Equal(t, "Consulting", cfg.Options[0].Title)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APPSIMPLE_SERVER_ADDR", ":7070")
	t.Setenv("APPSIMPLE_TYPING_TEXT", "From env.")
	t.Setenv("APPSIMPLE_TYPING_BASE_SPEED_MS", "55")
	t.Setenv("APPSIMPLE_SERVER_CASE_STUDIES", "one,two")
	t.Setenv("APPSIMPLE_LOG_LEVEL", "warn")

	path := writeConfig(t, "server:\n  addr: \":9999\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, "From env.", cfg.Typing.Text)
	assert.Equal(t, 55, cfg.Typing.BaseSpeedMS)
	assert.Equal(t, []string{"one", "two"}, cfg.Server.CaseStudies)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "typing: [not, a, map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "empty text", mutate: func(c *Config) { c.Typing.Text = "  " }, want: "typing.text is required"},
		{name: "base speed", mutate: func(c *Config) { c.Typing.BaseSpeedMS = 0 }, want: "base_speed_ms"},
		{name: "variation", mutate: func(c *Config) { c.Typing.SpeedVariation = 1.5 }, want: "speed_variation"},
		{name: "probability", mutate: func(c *Config) { c.Typing.WordPauseProbability = -0.1 }, want: "word_pause_probability"},
		{name: "thinking order", mutate: func(c *Config) { c.Typing.ThinkingMS = [2]int{500, 100} }, want: "thinking_ms"},
		{name: "negative delay", mutate: func(c *Config) { c.Typing.LongPauseMS = -1 }, want: "must not be negative"},
		{name: "empty token", mutate: func(c *Config) { c.Specials = []typewriter.Link{{Token: " "}} }, want: "specials[0]"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, want: "logging.level"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, want: "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestRegistry(t *testing.T) {
	cfg := Default()
	reg := cfg.Registry()
	link, ok := reg.Lookup("AppSimple")
	require.True(t, ok, "built-in registry used when no specials configured")
	assert.NotEmpty(t, link.URL)

	cfg.Specials = []typewriter.Link{
		{Token: "Livewire", URL: "/portfolio/livewire", Style: "case-study"},
		{Token: "AppSimple", URL: "https://example.com"},
	}
	reg = cfg.Registry()
	assert.Equal(t, []string{"Livewire", "AppSimple"}, reg.Tokens())
	link, _ = reg.Lookup("AppSimple")
	assert.Equal(t, "https://example.com", link.URL)
}

func TestTypingOptions(t *testing.T) {
	cfg := Default()
	cfg.Typing.Target = ""
	opts := cfg.Typing.Options(cfg.Registry())
	assert.Equal(t, cfg.Typing.Text, opts.Text)
	assert.Equal(t, "typing-text", opts.Target)
	assert.Equal(t, 70*time.Millisecond, opts.BaseSpeed)
	assert.Equal(t, time.Second, opts.InitialDelay)
	assert.Equal(t, [2]time.Duration{200 * time.Millisecond, 600 * time.Millisecond}, opts.Thinking)
	assert.NotNil(t, opts.Registry)
}
