package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Config holds editor settings consumed by the document engine.
type Config struct {
	Defaults Defaults
	History  HistoryConfig
	Recent   RecentConfig
	Logging  LoggingConfig
}

// Defaults are the values given to newly created map objects.
type Defaults struct {
	FloorHeight    int
	CeilingHeight  int
	LightLevel     int
	Thing          int
	WallTexture    string
	FloorTexture   string
	CeilingTexture string
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	// MaxUndo bounds the undo stack; zero keeps everything.
	MaxUndo int
}

// RecentConfig configures the recently-used lists.
type RecentConfig struct {
	Size int
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	Verbosity int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: Defaults{
			FloorHeight:    0,
			CeilingHeight:  128,
			LightLevel:     176,
			Thing:          2001,
			WallTexture:    "GRAY1",
			FloorTexture:   "FLAT1",
			CeilingTexture: "FLAT1",
		},
		Recent: RecentConfig{Size: 16},
	}
}

// setting binds a dotted JSON path to a Config field.
type setting struct {
	path string
	num  func(c *Config) *int
	str  func(c *Config) *string
}

var settings = []setting{
	{path: "defaults.floorHeight", num: func(c *Config) *int { return &c.Defaults.FloorHeight }},
	{path: "defaults.ceilingHeight", num: func(c *Config) *int { return &c.Defaults.CeilingHeight }},
	{path: "defaults.lightLevel", num: func(c *Config) *int { return &c.Defaults.LightLevel }},
	{path: "defaults.thing", num: func(c *Config) *int { return &c.Defaults.Thing }},
	{path: "defaults.wallTexture", str: func(c *Config) *string { return &c.Defaults.WallTexture }},
	{path: "defaults.floorTexture", str: func(c *Config) *string { return &c.Defaults.FloorTexture }},
	{path: "defaults.ceilingTexture", str: func(c *Config) *string { return &c.Defaults.CeilingTexture }},
	{path: "history.maxUndo", num: func(c *Config) *int { return &c.History.MaxUndo }},
	{path: "recent.size", num: func(c *Config) *int { return &c.Recent.Size }},
	{path: "logging.verbosity", num: func(c *Config) *int { return &c.Logging.Verbosity }},
}

// Parse overlays the settings found in a JSON document onto base.
// Unknown keys are ignored.
func Parse(data []byte, base Config) (Config, error) {
	if !gjson.ValidBytes(data) {
		return base, &ParseError{Message: "invalid JSON"}
	}

	cfg := base
	for _, s := range settings {
		v := gjson.GetBytes(data, s.path)
		if !v.Exists() {
			continue
		}
		switch {
		case s.num != nil:
			if v.Type != gjson.Number {
				return base, fmt.Errorf("%s: %w", s.path, ErrTypeMismatch)
			}
			*s.num(&cfg) = int(v.Int())
		case s.str != nil:
			if v.Type != gjson.String {
				return base, fmt.Errorf("%s: %w", s.path, ErrTypeMismatch)
			}
			*s.str(&cfg) = v.String()
		}
	}
	return cfg, cfg.Validate()
}

// Marshal renders the configuration as JSON.
func (c Config) Marshal() ([]byte, error) {
	data := []byte("{}")
	var err error
	for _, s := range settings {
		var v any
		if s.num != nil {
			v = *s.num(&c)
		} else {
			v = *s.str(&c)
		}
		data, err = sjson.SetBytes(data, s.path, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
	}
	return data, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Defaults.CeilingHeight < c.Defaults.FloorHeight {
		return fmt.Errorf("defaults.ceilingHeight below floor: %w", ErrValidationFailed)
	}
	if c.Defaults.LightLevel < 0 || c.Defaults.LightLevel > 255 {
		return fmt.Errorf("defaults.lightLevel %d: %w", c.Defaults.LightLevel, ErrValidationFailed)
	}
	if c.History.MaxUndo < 0 {
		return fmt.Errorf("history.maxUndo %d: %w", c.History.MaxUndo, ErrValidationFailed)
	}
	return nil
}

// Load builds a configuration from the defaults, the optional JSON file at
// path, and MAPEDIT_ environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		if err != nil {
			return cfg, err
		}
		cfg, err = Parse(data, cfg)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Path = path
			}
			return cfg, err
		}
	}

	return ApplyEnv(cfg, EnvPrefix, os.Environ())
}

// Save writes the configuration to path as JSON.
func Save(c Config, path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
