package svankit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pbl-acoustics/svankit/pkg/logger"
)

// FileConfig is the on-disk YAML configuration.
type FileConfig struct {
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	Channels int    `yaml:"channels"`
}

// LoadConfigFile reads and validates a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	fc.applyDefaults()
	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) applyDefaults() {
	if fc.DBPath == "" {
		fc.DBPath = "svankit.sqlite3"
	}
	if fc.LogLevel == "" {
		fc.LogLevel = "INFO"
	}
}

func (fc *FileConfig) Validate() error {
	if _, ok := logger.ParseLevel(fc.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", fc.LogLevel)
	}
	if fc.Channels < 0 {
		return fmt.Errorf("negative channel count %d", fc.Channels)
	}
	return nil
}
