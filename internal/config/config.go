// Package config loads runtime settings from a config file, environment
// variables (STORMREPORT_*), and defaults, in that priority order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the report pipeline, the HTTP
// server, and the optional Kafka export.
type Config struct {
	DataSource  string
	VocabSource string
	CacheDir    string

	FetchTimeout time.Duration
	TopN         int

	HTTPAddr         string
	ShutdownTimeout  time.Duration
	ResponseCacheTTL time.Duration
	RateLimit        float64
	RateBurst        int

	LogLevel  string
	LogFormat string

	ExportBrokers []string
	ExportTopic   string
}

// ExportEnabled reports whether cleaned records should be published to
// Kafka. Export is off unless brokers are configured.
func (c *Config) ExportEnabled() bool {
	return len(c.ExportBrokers) > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_source", "https://d396qusza40orc.cloudfront.net/repdata%2Fdata%2FStormData.csv.bz2")
	v.SetDefault("vocab_source", "")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("fetch_timeout", 5*time.Minute)
	v.SetDefault("top_n", 10)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("response_cache_ttl", 5*time.Minute)
	v.SetDefault("rate_limit", 20.0)
	v.SetDefault("rate_burst", 40)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("export_brokers", "")
	v.SetDefault("export_topic", "clean-storm-records")
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".stormreport-cache"
	}
	return filepath.Join(base, "stormreport")
}

// Load reads configuration from cfgFile (optional), the environment,
// and defaults, applies any overrides (flag values), then validates the
// result.
func Load(cfgFile string, overrides ...func(*Config)) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STORMREPORT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		DataSource:       v.GetString("data_source"),
		VocabSource:      v.GetString("vocab_source"),
		CacheDir:         v.GetString("cache_dir"),
		FetchTimeout:     v.GetDuration("fetch_timeout"),
		TopN:             v.GetInt("top_n"),
		HTTPAddr:         v.GetString("http_addr"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		ResponseCacheTTL: v.GetDuration("response_cache_ttl"),
		RateLimit:        v.GetFloat64("rate_limit"),
		RateBurst:        v.GetInt("rate_burst"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		ExportBrokers:    splitBrokers(v.GetString("export_brokers")),
		ExportTopic:      v.GetString("export_topic"),
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func (c *Config) validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("data_source is required")
	}
	if c.VocabSource == "" {
		return fmt.Errorf("vocab_source is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.ExportEnabled() && c.ExportTopic == "" {
		return fmt.Errorf("export_topic is required when export_brokers is set")
	}
	return nil
}
