package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the inspector configuration file
// (~/.config/inspector-gguf/config.yaml). CLI flags take precedence over
// every field here.
type Config struct {
	ModelsDir string `yaml:"models_dir"`

	// Export defaults
	ExportFormat string `yaml:"export_format"`
	ExportDir    string `yaml:"export_dir"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inspector-gguf", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file does
// not exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyCommonConfig applies config defaults to flags shared across commands
// when the corresponding flag was not explicitly set.
func applyCommonConfig(c *cli.Command, cfg Config) {
	if cfg.ModelsDir != "" && !c.IsSet("models-path") {
		modelsPath = cfg.ModelsDir
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyExportConfig(c *cli.Command, cfg Config, format, outDir *string) {
	applyCommonConfig(c, cfg)
	if cfg.ExportFormat != "" && !c.IsSet("format") {
		*format = cfg.ExportFormat
	}
	if cfg.ExportDir != "" && !c.IsSet("out-dir") {
		*outDir = cfg.ExportDir
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyCommonConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
