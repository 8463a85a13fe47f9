package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CiScopeConfigPathEnvVar = "CI_SCOPE_CONFIG_PATH" // Environment variable for config path
	envPrefix               = "CI_SCOPE"
	defaultConfigName       = ".ci-scope"

	// DefaultGraphOutput is the image written by the graph command
	DefaultGraphOutput = "gitlab_templates_relationships.png"
)

// Config holds all configuration for the application
type Config struct {
	// Debug enables verbose logging and additional debug information
	Debug bool `mapstructure:"debug"`
	// Root is the directory scanned for pipeline files
	Root string `mapstructure:"root"`
	// Pattern is the glob used to discover pipeline files under Root
	Pattern string `mapstructure:"pattern"`
	// Matcher selects how references are matched to files (heuristic, exact)
	Matcher string `mapstructure:"matcher"`

	// Graph output configuration
	Graph struct {
		Output string `mapstructure:"output"`
		DOT    string `mapstructure:"dot"`
		Width  int    `mapstructure:"width"`
		Height int    `mapstructure:"height"`
		Title  string `mapstructure:"title"`
	} `mapstructure:"graph"`

	// Report configuration
	Report struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"report"`

	// Server configuration
	Server struct {
		Host     string        `mapstructure:"host"`
		Port     int           `mapstructure:"port"`
		Timeout  time.Duration `mapstructure:"timeout"`
		LogLevel string        `mapstructure:"log_level"`
	} `mapstructure:"server"`
}

// Load initializes and returns the configuration from all sources:
// 1. Command-line flags (highest priority, applied by the commands)
// 2. Environment variables (prefixed with CI_SCOPE_)
// 3. Configuration file (lowest priority)
func Load(configPath string) (*Config, error) {
	// Check for environment variable config path if not explicitly provided
	if configPath == "" {
		if envPath := os.Getenv(CiScopeConfigPathEnvVar); envPath != "" {
			if _, err := os.Stat(envPath); os.IsNotExist(err) {
				return nil, fmt.Errorf("config file specified in %s not found: %s", CiScopeConfigPathEnvVar, envPath)
			}
			configPath = envPath
		}
	} else {
		// Verify explicitly provided config file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
	}
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for .ci-scope.yml in the current directory
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// Replace dots with underscores in env vars
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		} else if configPath != "" {
			// Only error if config file was explicitly specified
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("root", ".")
	v.SetDefault("pattern", "**/*.y*ml")
	v.SetDefault("matcher", "heuristic")

	// Graph defaults
	v.SetDefault("graph.output", DefaultGraphOutput)
	v.SetDefault("graph.dot", "")
	v.SetDefault("graph.width", 1200)
	v.SetDefault("graph.height", 800)
	v.SetDefault("graph.title", "GitLab CI Templates Relationships")

	// Report defaults
	v.SetDefault("report.format", "text")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.log_level", "info")
}
