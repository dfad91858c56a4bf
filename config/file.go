package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config is the optional slidestack.yaml file.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Media  MediaConfig  `yaml:"media"`
}

type RenderConfig struct {
	Resolution   string        `yaml:"resolution"`
	FPS          float64       `yaml:"fps"`
	Quality      string        `yaml:"quality"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// Planners is how many jobs the worker plans at once.
	Planners int `yaml:"planners"`
}

type MediaConfig struct {
	// Probe asks ffprobe for the duration of uploaded audio and video
	// that arrive without one.
	Probe bool `yaml:"probe"`
}

func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Resolution:   "1920x1080",
			FPS:          30,
			Quality:      "high",
			PollInterval: 10 * time.Second,
			Planners:     2,
		},
		Media: MediaConfig{
			Probe: true,
		},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Render.PollInterval <= 0 {
		cfg.Render.PollInterval = Default().Render.PollInterval
	}
	if cfg.Render.Planners <= 0 {
		cfg.Render.Planners = 1
	}
	return cfg, nil
}

func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext returns the config stored by WithConfig, or the defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
