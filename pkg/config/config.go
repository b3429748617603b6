// Package config provides a layered loader for the node's own process
// settings (storage path, logging, VM limits) — distinct from the on-chain
// core.Config, which lives in consensus state and is never read from a
// file.
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ledgerforge/chain/pkg/utils"
)

// Config is the unified node configuration, mirroring the YAML files under
// cmd/chaind/config.
type Config struct {
	Storage struct {
		DBPath           string `mapstructure:"db_path"`
		PruneInterval    int    `mapstructure:"prune_interval"`
		SnapshotInterval int    `mapstructure:"snapshot_interval"`
	} `mapstructure:"storage"`

	Logging struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"logging"`

	VM struct {
		ModuleCacheSize int `mapstructure:"module_cache_size"`
		CallStackLimit  int `mapstructure:"call_stack_limit"`
	} `mapstructure:"vm"`
}

// AppConfig holds the configuration loaded via Load.
var AppConfig Config

func setDefaults() {
	viper.SetDefault("storage.db_path", "./chain-data/state.db")
	viper.SetDefault("storage.prune_interval", 0)
	viper.SetDefault("storage.snapshot_interval", 0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.json", true)
	viper.SetDefault("vm.module_cache_size", 128)
	viper.SetDefault("vm.call_stack_limit", 10)
}

// Load reads cmd/chaind/config/default.yaml, optionally merges an
// env-named override file, then layers in environment variables (a local
// .env file first, if present, then whatever is already in the process
// environment). The resulting Config is stored in AppConfig and returned.
func Load(env string) (*Config, error) {
	_ = godotenv.Load()

	setDefaults()
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/chaind/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, "merge "+env+" config")
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the CHAIN_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("CHAIN_ENV", ""))
}
