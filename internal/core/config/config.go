package config

import (
	"github.com/namdoan/escrowd/internal/infra/notify"
	"github.com/namdoan/escrowd/internal/infra/storage/postgres"
	"github.com/namdoan/escrowd/internal/infra/treasury"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Ledger   LedgerConfig       `yaml:"ledger"`
	Database postgres.Config    `yaml:"database"`
	Redis    notify.RedisConfig `yaml:"redis"`
	Treasury treasury.Config    `yaml:"treasury"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LedgerConfig holds ledger engine settings.
type LedgerConfig struct {
	// InstanceID identifies this ledger deployment; it is mixed into
	// derived event ids so separate deployments never share id space.
	InstanceID string `yaml:"instance_id"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
