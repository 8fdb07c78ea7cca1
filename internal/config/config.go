package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/csheth/appsimple/internal/typewriter"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix namespaces every environment override.
const EnvPrefix = "APPSIMPLE_"

// Config holds all appsimple configuration.
type Config struct {
	Server   Server            `yaml:"server" envPrefix:"SERVER_"`
	Typing   Typing            `yaml:"typing" envPrefix:"TYPING_"`
	Specials []typewriter.Link `yaml:"specials"`
	Options  []Option          `yaml:"options"`
	Logging  Logging           `yaml:"logging" envPrefix:"LOG_"`
}

// Server configures the site server.
type Server struct {
	Addr         string   `yaml:"addr" env:"ADDR"`
	TemplatesDir string   `yaml:"templates_dir" env:"TEMPLATES_DIR"`
	ContentDir   string   `yaml:"content_dir" env:"CONTENT_DIR"`
	AssetsDir    string   `yaml:"assets_dir" env:"ASSETS_DIR"`
	StaticDir    string   `yaml:"static_dir" env:"STATIC_DIR"`
	RootDir      string   `yaml:"root_dir" env:"ROOT_DIR"`
	CaseStudies  []string `yaml:"case_studies" env:"CASE_STUDIES" envSeparator:","`
	Reload       bool     `yaml:"reload" env:"RELOAD"`
	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `yaml:"shutdown_timeout_ms" env:"SHUTDOWN_TIMEOUT_MS"`
}

// Typing mirrors the hero animation options. Durations are milliseconds.
type Typing struct {
	Text                 string  `yaml:"text" env:"TEXT"`
	Target               string  `yaml:"target" env:"TARGET"`
	BaseSpeedMS          int     `yaml:"base_speed_ms" env:"BASE_SPEED_MS"`
	SpeedVariation       float64 `yaml:"speed_variation" env:"SPEED_VARIATION"`
	InitialDelayMS       int     `yaml:"initial_delay_ms" env:"INITIAL_DELAY_MS"`
	LongPauseMS          int     `yaml:"long_pause_ms" env:"LONG_PAUSE_MS"`
	ShortPauseMS         int     `yaml:"short_pause_ms" env:"SHORT_PAUSE_MS"`
	WordPauseProbability float64 `yaml:"word_pause_probability" env:"WORD_PAUSE_PROBABILITY"`
	ThinkingMS           [2]int  `yaml:"thinking_ms"`
	// StaggerMS spaces out the option items revealed after typing.
	StaggerMS int `yaml:"stagger_ms" env:"STAGGER_MS"`
}

// Option is one item revealed once typing completes.
type Option struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// Logging configures the zap logger.
type Logging struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // json, console
	File   string `yaml:"file" env:"FILE"`
}

const defaultTypingText = "Integrating AI into your business processes with AppSimple."

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":8000",
			TemplatesDir:      "templates",
			ContentDir:        "content",
			AssetsDir:         "assets",
			StaticDir:         "static",
			RootDir:           ".",
			CaseStudies:       append([]string(nil), defaultCaseStudies...),
			ShutdownTimeoutMS: 5000,
		},
		Typing: Typing{
			Text:                 defaultTypingText,
			Target:               "typing-text",
			BaseSpeedMS:          70,
			SpeedVariation:       0.3,
			InitialDelayMS:       1000,
			LongPauseMS:          700,
			ShortPauseMS:         250,
			WordPauseProbability: 0.1,
			ThinkingMS:           [2]int{200, 600},
			StaggerMS:            1500,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

var defaultCaseStudies = []string{
	"bodhimind",
	"guidedmind",
	"mindtimer",
	"livewire",
	"dspy-prompt-optimization",
	"llm-evaluation-prompting",
	"a-simple-auth-kit",
	"fot-recommender",
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var problems []string
	t := c.Typing
	if strings.TrimSpace(t.Text) == "" {
		problems = append(problems, "typing.text is required")
	}
	if t.BaseSpeedMS <= 0 {
		problems = append(problems, "typing.base_speed_ms must be positive")
	}
	if t.SpeedVariation < 0 || t.SpeedVariation > 1 {
		problems = append(problems, "typing.speed_variation must be within [0,1]")
	}
	if t.WordPauseProbability < 0 || t.WordPauseProbability > 1 {
		problems = append(problems, "typing.word_pause_probability must be within [0,1]")
	}
	if t.InitialDelayMS < 0 || t.LongPauseMS < 0 || t.ShortPauseMS < 0 || t.StaggerMS < 0 {
		problems = append(problems, "typing delays must not be negative")
	}
	if t.ThinkingMS[0] < 0 || t.ThinkingMS[0] > t.ThinkingMS[1] {
		problems = append(problems, "typing.thinking_ms must be [min,max] with 0 <= min <= max")
	}
	for i, link := range c.Specials {
		if strings.TrimSpace(link.Token) == "" {
			problems = append(problems, fmt.Sprintf("specials[%d].token is empty", i))
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not json or console", c.Logging.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Registry builds the special-token registry, falling back to the built-in
// one when no specials are configured.
func (c *Config) Registry() *typewriter.Registry {
	if len(c.Specials) == 0 {
		return typewriter.DefaultRegistry()
	}
	reg := typewriter.NewRegistry()
	for _, link := range c.Specials {
		reg.Add(link)
	}
	return reg
}

// Options converts the typing section into animator options.
func (t Typing) Options(reg *typewriter.Registry) typewriter.Options {
	opts := typewriter.DefaultOptions()
	opts.Text = t.Text
	if t.Target != "" {
		opts.Target = t.Target
	}
	opts.BaseSpeed = ms(t.BaseSpeedMS)
	opts.SpeedVariation = t.SpeedVariation
	opts.InitialDelay = ms(t.InitialDelayMS)
	opts.LongPause = ms(t.LongPauseMS)
	opts.ShortPause = ms(t.ShortPauseMS)
	opts.WordPauseProbability = t.WordPauseProbability
	opts.Thinking = [2]time.Duration{ms(t.ThinkingMS[0]), ms(t.ThinkingMS[1])}
	opts.Registry = reg
	return opts
}

// Stagger is the delay between revealed option items.
func (t Typing) Stagger() time.Duration {
	return ms(t.StaggerMS)
}

// ShutdownTimeout bounds graceful shutdown.
func (s Server) ShutdownTimeout() time.Duration {
	return ms(s.ShutdownTimeoutMS)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
