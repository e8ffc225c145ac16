// Package config loads server configuration from environment
// variables. All variables carry the COPPERPOT_ prefix.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port      int    `envconfig:"PORT" default:"8080"`
		DBPath    string `envconfig:"DB_PATH" default:"copperpot.db"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Push struct {
		VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
		VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	}

	Email struct {
		PostmarkToken string `envconfig:"POSTMARK_TOKEN"`
		FromEmail     string `envconfig:"FROM_EMAIL" default:"noreply@copperpot.app"`
		RecoveryEmail string `envconfig:"RECOVERY_EMAIL"`
	}

	Backup struct {
		S3Endpoint    string `envconfig:"S3_ENDPOINT"`
		S3Bucket      string `envconfig:"S3_BUCKET"`
		S3Region      string `envconfig:"S3_REGION" default:"us-east-1"`
		S3AccessKey   string `envconfig:"S3_ACCESS_KEY"`
		S3SecretKey   string `envconfig:"S3_SECRET_KEY"`
		Passphrase    string `envconfig:"BACKUP_PASSPHRASE"`
		ScheduleHour  int    `envconfig:"BACKUP_HOUR" default:"3"`
		RetentionDays int    `envconfig:"BACKUP_RETENTION_DAYS" default:"30"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("copperpot", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	return &cfg, nil
}
