// Package config loads datevar.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/LingHeChen/datevar/preview"
)

// FileName is the default config file name
const FileName = "datevar.toml"

// ErrUnknownFormat is returned for values that do not match any accepted form
var ErrUnknownFormat = errors.New("unknown format")

// Config is the whole configuration file
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Preview PreviewConfig `toml:"preview"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig configures the preview server
type ServerConfig struct {
	Listen       string   `toml:"listen"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// PreviewConfig configures the preview service
type PreviewConfig struct {
	FallbackMessage string `toml:"fallback_message"`
	MaxLength       int    `toml:"max_length"`
	TimeZone        string `toml:"time_zone"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration decodes "10s" style strings
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrUnknownFormat, text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:       "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
		Preview: PreviewConfig{
			FallbackMessage: preview.DefaultFallbackMessage,
			MaxLength:       preview.DefaultMaxLength,
			TimeZone:        "Local",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked while decoding
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("[server].listen is required")
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		return fmt.Errorf("[server] timeouts must not be negative")
	}
	if c.Preview.MaxLength < preview.NoLimit {
		return fmt.Errorf("[preview].max_length must be -1 or more, got %d", c.Preview.MaxLength)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Location resolves [preview].time_zone
func (c *Config) Location() (*time.Location, error) {
	switch c.Preview.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Preview.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("[preview].time_zone: %w: %v", ErrUnknownFormat, err)
	}
	return loc, nil
}

// ParseLevel maps debug, info, warn and error to slog levels
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log level %q: %w", s, ErrUnknownFormat)
}

// PreviewOptions converts the [preview] section into service options
func (c *Config) PreviewOptions() ([]preview.Option, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return []preview.Option{
		preview.WithLocation(loc),
		preview.WithFallbackMessage(c.Preview.FallbackMessage),
		preview.WithMaxLength(c.Preview.MaxLength),
	}, nil
}
