package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".hadithctl"
	configFileName = "config.yaml"
	logFileName    = "hadithctl.log"
	envPrefix      = "HADITH"

	DefaultServer = "http://localhost:8000"
)

// Config stores CLI configuration
type Config struct {
	Server string       `mapstructure:"server"` // RAG backend base URL
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

// ClientConfig HTTP client settings
type ClientConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`      // whole request
	DialTimeout time.Duration `mapstructure:"dial_timeout"` // TCP connect
}

// LogConfig logging settings
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// ChatConfig conversation settings
type ChatConfig struct {
	Welcome string `mapstructure:"welcome"` // empty means built-in text
}

// GetConfigDir returns the configuration directory (~/.hadithctl)
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// GetConfigPath returns the configuration file path (~/.hadithctl/config.yaml)
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads configuration from file, .env and HADITH_* environment variables.
// A missing config file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(strings.TrimSuffix(configFileName, filepath.Ext(configFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Log.FilePath == "" {
		if dir, err := GetConfigDir(); err == nil {
			cfg.Log.FilePath = filepath.Join(dir, logFileName)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults are plain values, decoding cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", DefaultServer)
	v.SetDefault("client.timeout", 60*time.Second)
	v.SetDefault("client.dial_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.add_source", false)
	v.SetDefault("chat.welcome", "")
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("server is required")
	}
	server := c.Server
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	if u, err := url.Parse(server); err != nil || u.Host == "" {
		return fmt.Errorf("invalid server URL: %s", c.Server)
	}

	if c.Client.Timeout < 0 || c.Client.DialTimeout < 0 {
		return fmt.Errorf("client timeouts must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	switch c.Log.Output {
	case "stdout", "stderr", "discard":
	case "file":
		if c.Log.FilePath == "" {
			return fmt.Errorf("log.file_path is required when log.output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", c.Log.Output)
	}

	return nil
}

// Save writes the configuration as YAML to path, or to the default path when empty
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server", c.Server)
	v.Set("client.timeout", c.Client.Timeout.String())
	v.Set("client.dial_timeout", c.Client.DialTimeout.String())
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("log.output", c.Log.Output)
	v.Set("log.file_path", c.Log.FilePath)
	v.Set("log.add_source", c.Log.AddSource)
	v.Set("chat.welcome", c.Chat.Welcome)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	// user read/write only
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return path, nil
}
