package config

// Package config provides a reusable loader for the indexer's configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.2.0

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/synnergy-network/compressed-indexer/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// Config is the unified configuration for a parser worker. It mirrors the
// structure of the YAML files under cmd/config.
type Config struct {
	Chain struct {
		// AccountCompressionProgramID and NoopProgramID override the
		// compiled-in base58 program IDs the scanner matches against.
		// Empty means use the compiled-in default.
		AccountCompressionProgramID string `mapstructure:"account_compression_program_id" json:"account_compression_program_id"`
		NoopProgramID               string `mapstructure:"noop_program_id" json:"noop_program_id"`
	} `mapstructure:"chain" json:"chain"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`

	Indexer struct {
		Workers     int    `mapstructure:"workers" json:"workers"`
		MetricsAddr string `mapstructure:"metrics_addr" json:"metrics_addr"`
		LogFormat   string `mapstructure:"log_format" json:"log_format"`
	} `mapstructure:"indexer" json:"indexer"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}

	// INDEXER_WORKERS overrides indexer.workers from YAML without requiring
	// a config file edit, matching the ops-friendly env-override pattern
	// pkg/utils/env.go exists for.
	AppConfig.Indexer.Workers = utils.EnvOrDefaultInt("INDEXER_WORKERS", AppConfig.Indexer.Workers)

	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SYNN_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SYNN_ENV", ""))
}
