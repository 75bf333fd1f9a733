package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Loader handles loading the BootstrapConfig from an optional YAML file
// layered over the built-in defaults.
type Loader struct {
	filePath string
}

// NewLoader creates a new configuration loader for the given file path.
// An empty path means "defaults only".
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load returns the defaults with any YAML overrides applied and validated.
func (l *Loader) Load() (*BootstrapConfig, error) {
	cfg := NewDefaultConfig()

	if l.filePath != "" {
		content, err := os.ReadFile(l.filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file '%s'", l.filePath)
		}
		if len(content) == 0 {
			return nil, errors.Errorf("configuration file '%s' is empty", l.filePath)
		}
		// Unmarshal over the defaults: absent keys keep their default values.
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal config YAML from '%s'", l.filePath)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
