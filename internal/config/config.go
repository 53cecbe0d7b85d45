package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvDBPath       = "GRIDTARIFF_DB"
	EnvService      = "GRIDTARIFF_SERVICE"
	EnvTimezone     = "GRIDTARIFF_TZ"
	EnvHAURL        = "GRIDTARIFF_HA_URL"
	EnvHAToken      = "GRIDTARIFF_HA_TOKEN"
	EnvMQTTBroker   = "GRIDTARIFF_MQTT_BROKER"
	EnvMQTTUsername = "GRIDTARIFF_MQTT_USERNAME"
	EnvMQTTPassword = "GRIDTARIFF_MQTT_PASSWORD"
	EnvPushgateway  = "GRIDTARIFF_PUSHGATEWAY"
)

const (
	defaultDBPath  = "data.db"
	defaultService = "home"
)

// Config holds the application configuration
type Config struct {
	DBPath        string        `yaml:"db_path,omitempty" toml:"db_path,omitempty" json:"db_path,omitempty"`
	Service       string        `yaml:"service,omitempty" toml:"service,omitempty" json:"service,omitempty"`    // Default service for commands
	Timezone      string        `yaml:"timezone,omitempty" toml:"timezone,omitempty" json:"timezone,omitempty"` // Meter time zone, e.g. "America/New_York"
	Plans         []PlanConfig  `yaml:"plans,omitempty" toml:"plans,omitempty" json:"plans,omitempty"`
	HomeAssistant HAConfig      `yaml:"home_assistant,omitempty" toml:"home_assistant,omitempty" json:"home_assistant,omitempty"`
	MQTT          MQTTConfig    `yaml:"mqtt,omitempty" toml:"mqtt,omitempty" json:"mqtt,omitempty"`
	Metrics       MetricsConfig `yaml:"metrics,omitempty" toml:"metrics,omitempty" json:"metrics,omitempty"`
}

// MetricsConfig holds where CLI runs push their metrics. The serve command
// exposes /metrics instead.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty" toml:"pushgateway_url,omitempty" json:"pushgateway_url,omitempty"` // e.g., "http://pushgateway:9091"
	Job            string `yaml:"job,omitempty" toml:"job,omitempty" json:"job,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	URL      string `yaml:"url" toml:"url" json:"url"`                   // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token" toml:"token" json:"token"`             // Long-lived access token
	EntityID string `yaml:"entity_id" toml:"entity_id" json:"entity_id"` // e.g., "sensor.cheapest_tariff"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	Broker      string `yaml:"broker" toml:"broker" json:"broker"` // host:port
	Username    string `yaml:"username,omitempty" toml:"username,omitempty" json:"username,omitempty"`
	Password    string `yaml:"password,omitempty" toml:"password,omitempty" json:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty" toml:"topic_prefix,omitempty" json:"topic_prefix,omitempty"`
}

// Load reads the config file. The format is chosen by extension (.yaml, .yml,
// .toml or .json). A missing file yields the default configuration. Values
// from a .env file or the environment override the file.
func Load(configPath string) (*Config, error) {
	cfg, err := loadFile(configPath)
	if err != nil {
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", filepath.Ext(configPath))
	}

	if len(cfg.Plans) == 0 {
		cfg.Plans = DefaultPlans()
	}
	return &cfg, nil
}

// Save writes the config to file in the format matching its extension
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Default returns a configuration with the default plans and no publishing
func Default() *Config {
	return &Config{Plans: DefaultPlans()}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvService); v != "" {
		c.Service = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvHAURL); v != "" {
		c.HomeAssistant.URL = v
	}
	if v := os.Getenv(EnvHAToken); v != "" {
		c.HomeAssistant.Token = v
	}
	if v := os.Getenv(EnvMQTTBroker); v != "" {
		c.MQTT.Broker = v
	}
	if v := os.Getenv(EnvMQTTUsername); v != "" {
		c.MQTT.Username = v
	}
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv(EnvPushgateway); v != "" {
		c.Metrics.PushgatewayURL = v
	}
}

// GetDBPath returns the database path, defaulting to ./data.db
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return defaultDBPath
	}
	return c.DBPath
}

// GetService returns the default service name
func (c *Config) GetService() string {
	if c.Service == "" {
		return defaultService
	}
	return c.Service
}

// GetJob returns the Pushgateway job name, defaulting to "gridtariff"
func (c *MetricsConfig) GetJob() string {
	if c.Job == "" {
		return "gridtariff"
	}
	return c.Job
}

// Location returns the meter time zone used for imports and billing periods,
// defaulting to UTC
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetTopicPrefix returns the MQTT topic prefix, defaulting to "gridtariff"
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "gridtariff"
	}
	return c.TopicPrefix
}
