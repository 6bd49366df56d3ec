package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Dataset DatasetConfig `yaml:"dataset"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Cache   CacheConfig   `yaml:"cache"`
	Worker  WorkerConfig  `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

// DatasetConfig selects and parameterizes the dataset source. Kind is "csv"
// (Location is a URL or file path) or "postgres" (Database applies). Columns
// remaps logical field names to the CSV's actual header spelling; unset
// fields default to their snake_case logical names.
type DatasetConfig struct {
	Kind     string            `yaml:"kind"`
	Location string            `yaml:"location"`
	Columns  map[string]string `yaml:"columns"`
	Database DatabaseConfig    `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	DatasetTopic string   `yaml:"dataset_topic"`
	GroupID      string   `yaml:"group_id"`
}

type CacheConfig struct {
	ViewTTLSeconds    int `yaml:"view_ttl_seconds"`
	OptionsTTLSeconds int `yaml:"options_ttl_seconds"`
}

type WorkerConfig struct {
	WarmSweepMinutes int `yaml:"warm_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Dataset.Kind == "" {
		cfg.Dataset.Kind = "csv"
	}
	if cfg.Worker.WarmSweepMinutes <= 0 {
		cfg.Worker.WarmSweepMinutes = 5
	}
	return &cfg, nil
}
