// Package config loads placer settings from defaults, an optional TOML file
// and PLACER_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/placer/pkg/canvas"
	"github.com/matzehuels/placer/pkg/errors"
	"github.com/matzehuels/placer/pkg/palette"
)

// Config holds every tunable of a placement run.
type Config struct {
	BaseURL   string `toml:"base_url" env:"BASE_URL"`
	UserAgent string `toml:"user_agent" env:"USER_AGENT"`

	Origin Origin `toml:"origin" envPrefix:"ORIGIN_"`

	ProbeTimeout     time.Duration `toml:"probe_timeout" env:"PROBE_TIMEOUT"`
	ErrorBackoff     time.Duration `toml:"error_backoff" env:"ERROR_BACKOFF"`
	CooldownBuffer   time.Duration `toml:"cooldown_buffer" env:"COOLDOWN_BUFFER"`
	TransportRetries int           `toml:"transport_retries" env:"TRANSPORT_RETRIES"`
	MaxAttempts      int           `toml:"max_attempts" env:"MAX_ATTEMPTS"`

	Metric  string   `toml:"metric" env:"METRIC"`
	Palette []string `toml:"palette"` // hex colors overriding the default table

	SessionStore string `toml:"session_store" env:"SESSION_STORE"`
}

// Origin is the canvas position of the image's top-left pixel.
type Origin struct {
	X int `toml:"x" env:"X"`
	Y int `toml:"y" env:"Y"`
}

// envPrefix is prepended to every environment variable name.
const envPrefix = "PLACER_"

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:          canvas.DefaultBaseURL,
		UserAgent:        canvas.DefaultUserAgent,
		Origin:           Origin{X: 890, Y: 850},
		ProbeTimeout:     canvas.DefaultProbeTimeout,
		ErrorBackoff:     5 * time.Second,
		CooldownBuffer:   2 * time.Second,
		TransportRetries: 5,
		MaxAttempts:      10,
		Metric:           string(palette.MetricRGB),
	}
}

// Load returns the defaults overlaid with the TOML file at path (skipped
// when path is empty) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse env")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate rejects settings the bot cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.UserAgent == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "user_agent must not be empty")
	}
	if c.Origin.X < 0 || c.Origin.Y < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "origin (%d, %d) is off the canvas", c.Origin.X, c.Origin.Y)
	}
	for name, d := range map[string]time.Duration{
		"probe_timeout":   c.ProbeTimeout,
		"error_backoff":   c.ErrorBackoff,
		"cooldown_buffer": c.CooldownBuffer,
	} {
		if d < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %s", name, d)
		}
	}
	if c.ProbeTimeout == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "probe_timeout must be positive")
	}
	if c.TransportRetries < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "transport_retries must be at least 1, got %d", c.TransportRetries)
	}
	if c.MaxAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if _, err := c.BuildPalette(); err != nil {
		return err
	}
	return nil
}

// BuildPalette returns the configured palette with the configured metric.
func (c Config) BuildPalette() (palette.Palette, error) {
	metric, err := palette.ParseMetric(c.Metric)
	if err != nil {
		return palette.Palette{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "metric")
	}
	p := palette.Default()
	if len(c.Palette) > 0 {
		if p, err = palette.Parse(c.Palette); err != nil {
			return palette.Palette{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
		}
	}
	return p.WithMetric(metric), nil
}

// Canvas returns the HTTP client settings.
func (c Config) Canvas() canvas.Config {
	return canvas.Config{
		BaseURL:      c.BaseURL,
		UserAgent:    c.UserAgent,
		ProbeTimeout: c.ProbeTimeout,
		Retries:      c.TransportRetries,
	}
}

func (o Origin) String() string { return fmt.Sprintf("(%d, %d)", o.X, o.Y) }
