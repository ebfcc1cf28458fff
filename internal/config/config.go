package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	CORSOrigin        string        `mapstructure:"cors_origin" yaml:"cors_origin"`
	ChatHistoryCap    int           `mapstructure:"chat_history_cap" yaml:"chat_history_cap"`
	ChatRatePerSec    float64       `mapstructure:"chat_rate_per_sec" yaml:"chat_rate_per_sec"`
	ChatRateBurst     int           `mapstructure:"chat_rate_burst" yaml:"chat_rate_burst"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		CORSOrigin:        "*",
		ChatHistoryCap:    100,
		ChatRatePerSec:    5,
		ChatRateBurst:     10,
		MaxMessageBytes:   1 << 20,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.CORSOrigin != "" {
		c.CORSOrigin = other.CORSOrigin
	}
	if other.ChatHistoryCap != 0 {
		c.ChatHistoryCap = other.ChatHistoryCap
	}
	if other.ChatRatePerSec != 0 {
		c.ChatRatePerSec = other.ChatRatePerSec
	}
	if other.ChatRateBurst != 0 {
		c.ChatRateBurst = other.ChatRateBurst
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
}
