// Package config loads viewer settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"easyview/pkg/exercise"
)

const (
	ProviderDemo = "demo"
	ProviderHTTP = "http"
)

type Config struct {
	Provider     string        `toml:"provider"`
	BaseURL      string        `toml:"base_url"`
	MaxThreads   int           `toml:"max_threads"`
	PollInterval time.Duration `toml:"poll_interval"`
	ImageWidth   int           `toml:"image_width"`
	// EditorFile is read when a form asks for the editor content.
	EditorFile   string `toml:"editor_file"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
	LogLevel     string `toml:"log_level"`
	ReplaceNBSP  bool   `toml:"replace_nbsp"`
}

func Default() Config {
	return Config{
		Provider:     ProviderDemo,
		MaxThreads:   exercise.DefaultMaxThreads,
		PollInterval: 200 * time.Millisecond,
		ImageWidth:   250,
		WindowWidth:  800,
		WindowHeight: 600,
		LogLevel:     "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys", "file", path, "keys", undecoded)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that have no usable fallback.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderDemo:
	case ProviderHTTP:
		if c.BaseURL == "" {
			return errors.New("config: http provider needs base_url")
		}
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.MaxThreads < 0 || c.ImageWidth < 0 || c.PollInterval < 0 {
		return errors.New("config: negative limits")
	}
	return nil
}

// NewProvider builds the page source the config names.
func (c Config) NewProvider() exercise.Provider {
	if c.Provider == ProviderHTTP {
		return exercise.NewHTTP(c.BaseURL, c.MaxThreads)
	}
	return exercise.NewDemo()
}

// Level maps log_level to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
