// Package config содержит логику чтения конфигурации сервиса prosite.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса prosite.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	JWTSecret   string `env:"JWT_SECRET"`

	UPIPayeeVPA  string `env:"UPI_PAYEE_VPA"`
	UPIPayeeName string `env:"UPI_PAYEE_NAME"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envPayeeVPA := cfg.UPIPayeeVPA
	envPayeeName := cfg.UPIPayeeName

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.UPIPayeeVPA, "p", "prosite@upi", "UPI payee VPA for payment links")
	flag.StringVar(&cfg.UPIPayeeName, "n", "ProSite", "UPI payee display name")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envPayeeVPA != "" {
		cfg.UPIPayeeVPA = envPayeeVPA
	}
	if envPayeeName != "" {
		cfg.UPIPayeeName = envPayeeName
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	return cfg, nil
}
