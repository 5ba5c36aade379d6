package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Reviews   ReviewsConfig   `yaml:"reviews"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Logging   LoggingConfig   `yaml:"logging"`
	ReviewBox ReviewBoxConfig `yaml:"reviewbox"`
}

type ReviewsConfig struct {
	Endpoint              string `yaml:"endpoint"`
	Mode                  string `yaml:"mode"` // "http" | "fake"
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

type TelegramConfig struct {
	// Format string with two %s verbs (token, method), see tgbotapi.APIEndpoint.
	APIEndpoint    string `yaml:"api_endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type KafkaConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	StatusChangedTopicName string `yaml:"status_changed_topic_name"`
	PublishTimeoutSeconds  int    `yaml:"publish_timeout_seconds"`
}

type LoggingConfig struct {
	File           string `yaml:"file"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	StdoutLevel    string `yaml:"stdout_level"`
	FileLevel      string `yaml:"file_level"`
}

type ReviewBoxConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// "trailing" (default): from_date = now - poll interval on every iteration.
	// "since_last_success": from_date = time of the last successful fetch.
	WindowMode string `yaml:"window_mode"`

	WorkerHTTPAddr string `yaml:"worker_http_addr"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// LoadConfigOrDefault returns an empty config when no file is given;
// every consumer applies its own defaults to zero values.
func LoadConfigOrDefault(filename string) (*Config, error) {
	if filename == "" {
		return &Config{}, nil
	}
	return LoadConfig(filename)
}
