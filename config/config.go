// Reads the settings of the boardsvg command from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultStaticPath = "pychess-variants/static"
	defaultTheme      = "merida"
	maximumSize       = 4096
)

// Config captures the settings shared by the rendering commands.
type Config struct {
	// StaticPath is the root of the asset tree, holding
	// piece/<theme>.css and images/.
	StaticPath string
	Theme      string
	// Size is the width and height of the output, 0 meaning unset.
	Size int
}

// LoadFromEnv loads the configuration from environment variables.
func LoadFromEnv() (Config, error) {
	staticPath, err := readRequiredOrDefault("BOARDSVG_STATIC_PATH", defaultStaticPath)
	if err != nil {
		return Config{}, err
	}

	theme, err := readRequiredOrDefault("BOARDSVG_THEME", defaultTheme)
	if err != nil {
		return Config{}, err
	}
	if strings.ContainsAny(theme, `/\`) {
		return Config{}, fmt.Errorf("BOARDSVG_THEME must be a theme name, not a path")
	}

	size, err := readInt("BOARDSVG_SIZE", 0, 1, maximumSize)
	if err != nil {
		return Config{}, err
	}

	return Config{
		StaticPath: filepath.Clean(staticPath),
		Theme:      theme,
		Size:       size,
	}, nil
}

func readRequiredOrDefault(key, fallback string) (string, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}

	return raw, nil
}

func readInt(key string, fallback, min, max int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}

	return parsed, nil
}
