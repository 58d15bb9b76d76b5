package monitor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileConfig is the dashboard's own on-disk configuration, loaded
// separately from the owning process's config since the dashboard is
// optional and often tuned independently (allowed browser origins change
// far more often than server addresses do).
type FileConfig struct {
	Port           int      `yaml:"port"`
	Production     bool     `yaml:"production"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadConfig reads a dashboard config file and converts it to Config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("monitor: read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("monitor: parse %s: %w", path, err)
	}

	return Config{Port: fc.Port, Production: fc.Production, AllowedOrigins: fc.AllowedOrigins}, nil
}
