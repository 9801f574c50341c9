// Package runconfig loads compflow's ambient configuration: logging
// level/format/destination, the default run group, the observer
// dispatch buffer size, and an optional run-wide timeout. It never
// describes which components exist — that catalog is built in Go code
// by calling a Registrar, not read from a file.
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is compflow's typed, ambient configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	DefaultGroup string `mapstructure:"default_group"`

	ObserverBufferSize int `mapstructure:"observer_buffer_size"`

	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
	v.SetDefault("default_group", "single")
	v.SetDefault("observer_buffer_size", 64)
	v.SetDefault("run_timeout", time.Duration(0))
}

// Load searches, in order, $COMPFLOW_CONFIG_DIR, ~/.config/compflow, and
// the current directory for config.yaml, falling back to defaults plus
// environment overrides (prefixed COMPFLOW_) if none is found. A config
// file that exists but cannot be parsed is a fatal error; a config file
// that simply is not there is not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("COMPFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if dir := os.Getenv("COMPFLOW_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "compflow"))
	}
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("runconfig: reading config; %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("runconfig: unmarshalling config; %w", err)
	}
	return cfg, nil
}
