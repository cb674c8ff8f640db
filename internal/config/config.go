// Package config loads the optional YAML config file with connection and
// output defaults. Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/floriangmeiner/thermal-logger/internal/serialport"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type SerialConfig struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud:        serialport.DefaultBaud,
			ReadTimeout: serialport.DefaultReadTimeout,
		},
		Output: OutputConfig{Dir: "."},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path and fills unset fields from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the transport cannot work with.
func (c *Config) Validate() error {
	if c.Serial.Baud < 0 {
		return fmt.Errorf("config: baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Serial.ReadTimeout < 0 {
		return fmt.Errorf("config: read_timeout must be positive, got %v", c.Serial.ReadTimeout)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output dir must not be empty")
	}
	return nil
}
