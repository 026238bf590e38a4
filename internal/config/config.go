package config

import (
	"os"

	"cardtable-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the card table server
type Config struct {
	loaded bool

	// AdminPassword is a plaintext shared secret for the table admin.
	// If AdminPasswordHash is set, it takes precedence.
	AdminPassword     string `yaml:"adminPassword" envconfig:"admin_password"`
	AdminPasswordHash string `yaml:"adminPasswordHash" envconfig:"admin_password_hash"`

	Blackjack struct {
		StartingBalance  int `yaml:"startingBalance" envconfig:"starting_balance"`
		DeckLowWaterMark int `yaml:"deckLowWaterMark" envconfig:"deck_low_water_mark"`
	}

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// DefaultConfig returns the configuration before any file or environment
// overrides are applied
func DefaultConfig() Config {
	var c Config
	c.Blackjack.StartingBalance = 100
	c.Blackjack.DeckLowWaterMark = 10
	c.Log.Level = "info"
	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; defaults and environment variables still apply
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("CTS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("cts", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
