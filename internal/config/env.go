package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MAPEDIT_"

// ApplyEnv overlays PREFIX_SECTION_SETTING_NAME variables onto cfg.
// MAPEDIT_DEFAULTS_WALL_TEXTURE maps to defaults.wallTexture.
// Variables that name no known setting are ignored.
func ApplyEnv(cfg Config, prefix string, environ []string) (Config, error) {
	known := make(map[string]bool, len(settings))
	for _, s := range settings {
		known[s.path] = true
	}

	data, err := cfg.Marshal()
	if err != nil {
		return cfg, err
	}

	touched := false
	for _, env := range environ {
		if !strings.HasPrefix(env, prefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		path := envToPath(prefix, parts[0])
		if !known[path] {
			continue
		}

		data, err = sjson.SetBytes(data, path, parseValue(parts[1]))
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", parts[0], err)
		}
		touched = true
	}

	if !touched {
		return cfg, nil
	}
	return Parse(data, cfg)
}

// envToPath converts MAPEDIT_DEFAULTS_WALL_TEXTURE to defaults.wallTexture.
func envToPath(prefix, env string) string {
	name := strings.TrimPrefix(env, prefix)

	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return strings.ToLower(name)
	}

	// First part is the section, the rest form the setting name in camelCase
	settingName := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			settingName += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}

	return strings.ToLower(parts[0]) + "." + settingName
}

// parseValue keeps integers numeric so Parse accepts them.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return s
}
