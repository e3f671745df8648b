// Package config loads the client configuration from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root client configuration.
type Config struct {
	Window  Window  `yaml:"window"`
	View    View    `yaml:"view"`
	Overlay Overlay `yaml:"overlay"`
}

// Window configures the game window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// View configures the map view geometry and layers.
type View struct {
	VisibleWidth  int `yaml:"visible_width"`
	VisibleHeight int `yaml:"visible_height"`

	// MaxTextureSize caps the offscreen buffer dimensions; zero keeps the
	// built-in default.
	MaxTextureSize int `yaml:"max_texture_size"`

	Multifloor          bool    `yaml:"multifloor"`
	DrawLights          bool    `yaml:"draw_lights"`
	MinimumAmbientLight float64 `yaml:"minimum_ambient_light"`
	FloorShadowing      bool    `yaml:"floor_shadowing"`
	AllGroundFirst      bool    `yaml:"all_ground_first"`
}

// Overlay configures the text and creature information overlays.
type Overlay struct {
	Texts      bool `yaml:"texts"`
	Names      bool `yaml:"names"`
	HealthBars bool `yaml:"health_bars"`
	ManaBar    bool `yaml:"mana_bar"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "tilescope",
		},
		View: View{
			VisibleWidth:  15,
			VisibleHeight: 11,
			Multifloor:    true,
			DrawLights:    true,
		},
		Overlay: Overlay{
			Texts:      true,
			Names:      true,
			HealthBars: true,
			ManaBar:    true,
		},
	}
}

// Load reads the configuration at path, falling back to defaults when the
// file does not exist. Values absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.View.VisibleWidth < 3 || cfg.View.VisibleHeight < 3 {
		return nil, fmt.Errorf("config %s: visible dimension %dx%d too small",
			path, cfg.View.VisibleWidth, cfg.View.VisibleHeight)
	}

	return cfg, nil
}
