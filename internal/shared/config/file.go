package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML overlay. Secrets stay in the environment.
type fileConfig struct {
	Env                string   `yaml:"env"`
	Port               string   `yaml:"port"`
	CORSAllowOrigins   []string `yaml:"corsAllowOrigins"`
	AWSRegion          string   `yaml:"awsRegion"`
	SQSQueueURL        string   `yaml:"sqsQueueUrl"`
	BusinessTimezone   string   `yaml:"businessTimezone"`
	FeedbackEditWindow string   `yaml:"feedbackEditWindow"`
	RedisAddr          string   `yaml:"redisAddr"`
	ReminderSchedule   string   `yaml:"reminderSchedule"`
	UIRedirectURL      string   `yaml:"uiRedirectUrl"`
	RateLimit          struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`
}

func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
