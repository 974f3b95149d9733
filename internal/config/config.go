// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. It is constructed once
// at session start and passed into every component that needs it; nothing
// mutates it while a session is in flight.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Backend    BackendConfig    `mapstructure:"backend" yaml:"backend"`
	Loop       LoopConfig       `mapstructure:"loop" yaml:"loop"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot" yaml:"screenshot"`
	Input      InputConfig      `mapstructure:"input" yaml:"input"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BackendConfig selects and tunes the vision-model backends.
type BackendConfig struct {
	// DefaultFamily is used when a bare legacy model name is given with no
	// family prefix.
	DefaultFamily string        `mapstructure:"default_family" yaml:"default_family"`
	APITimeout    time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	MaxTokens     int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature" yaml:"temperature"`
	OpenAI        OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
	Ollama        OllamaConfig  `mapstructure:"ollama" yaml:"ollama"`
	Retry         RetryConfig   `mapstructure:"retry" yaml:"retry"`
}

// OpenAIConfig holds remote-hosted backend settings. The API key is sourced
// from the settings store or OPERATE_OPENAI_API_KEY, never the config file.
type OpenAIConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey   string `mapstructure:"api_key" yaml:"-"`
}

// OllamaConfig holds self-hosted backend settings.
type OllamaConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
}

// RetryConfig tunes the backoff wrapper around backend calls.
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier" yaml:"multiplier"`
}

// LoopConfig bounds the operator session.
type LoopConfig struct {
	MaxTurns int `mapstructure:"max_turns" yaml:"max_turns"`
}

// ScreenshotConfig tunes screenshot re-encoding before a capture is embedded
// in a backend request. The numbers are backend-tunable, not invariants, but
// must shrink the payload materially versus the raw capture.
type ScreenshotConfig struct {
	MaxEdge     int `mapstructure:"max_edge" yaml:"max_edge"`
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// InputConfig tunes the OS input collaborator.
type InputConfig struct {
	// TypeDelay is the pause between typed characters during a write action.
	TypeDelay time.Duration `mapstructure:"type_delay" yaml:"type_delay"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "operate")
	v.SetDefault("logger.log_file", "operate.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Backend --
	v.SetDefault("backend.default_family", "openai")
	v.SetDefault("backend.api_timeout", "60s")
	v.SetDefault("backend.max_tokens", 1000)
	v.SetDefault("backend.temperature", 0.7)
	v.SetDefault("backend.openai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("backend.ollama.host", "http://localhost:11434")
	v.SetDefault("backend.retry.max_attempts", 3)
	v.SetDefault("backend.retry.initial_interval", "4s")
	v.SetDefault("backend.retry.max_interval", "16s")
	v.SetDefault("backend.retry.multiplier", 2.0)

	// -- Loop --
	v.SetDefault("loop.max_turns", 10)

	// -- Screenshot --
	v.SetDefault("screenshot.max_edge", 1920)
	v.SetDefault("screenshot.jpeg_quality", 85)

	// -- Input --
	v.SetDefault("input.type_delay", "15ms")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.BindEnv("backend.openai.api_key", "OPERATE_OPENAI_API_KEY")
	v.BindEnv("backend.ollama.host", "OPERATE_OLLAMA_HOST")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Loop.MaxTurns <= 0 {
		return fmt.Errorf("loop.max_turns must be a positive integer")
	}
	if c.Backend.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("backend.retry.max_attempts must be a positive integer")
	}
	if c.Backend.Retry.InitialInterval <= 0 {
		return fmt.Errorf("backend.retry.initial_interval must be a positive duration")
	}
	if c.Backend.Retry.Multiplier < 1.0 {
		return fmt.Errorf("backend.retry.multiplier must be >= 1.0")
	}
	if c.Screenshot.MaxEdge <= 0 {
		return fmt.Errorf("screenshot.max_edge must be a positive integer")
	}
	if c.Screenshot.JPEGQuality < 1 || c.Screenshot.JPEGQuality > 100 {
		return fmt.Errorf("screenshot.jpeg_quality must be in [1, 100]")
	}
	return nil
}
