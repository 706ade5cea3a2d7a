package webpack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is loaded when the manifest does not name a
// configuration file.
const DefaultConfigFile = "webpack.config.yml"

// Load resolves the raw bundler configuration value from the manifest:
// an inline mapping is decoded directly, a string is treated as a file
// path relative to the service root, and an absent value falls back to
// DefaultConfigFile.
func Load(serviceRoot string, raw *yaml.Node) (*Config, error) {
	if raw == nil || (raw.Kind == yaml.ScalarNode && raw.Tag == "!!null") {
		return loadFile(filepath.Join(serviceRoot, DefaultConfigFile))
	}

	switch raw.Kind {
	case yaml.ScalarNode:
		var file string
		if err := raw.Decode(&file); err != nil {
			return nil, fmt.Errorf("invalid bundler configuration value: %w", err)
		}
		return loadFile(filepath.Join(serviceRoot, file))
	case yaml.MappingNode:
		var cfg Config
		if err := raw.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("invalid inline bundler configuration: %w", err)
		}
		return &cfg, nil
	default:
		return nil, fmt.Errorf("bundler configuration must be a file path or a mapping")
	}
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigFileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read bundler configuration %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		// Log before propagating so the offending file is visible even
		// when the caller only reports the pass failure.
		log.Error().Str("path", path).Err(err).Msg("Could not load the bundler configuration file")
		return nil, &ConfigLoadError{Path: path, Err: err}
	}

	return &cfg, nil
}
