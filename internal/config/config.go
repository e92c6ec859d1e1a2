package config

import (
	"os"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval  = 30
	defaultSignalTTL = 120
	defaultHistoryDB = "/var/lib/sleepctl/history.db"
	defaultBroker    = "tcp://localhost:1883"
	defaultClientID  = "sleepctl"
	defaultVitals    = "sleepctl/vitals"
	defaultEnv       = "sleepctl/environment"
	defaultCommands  = "sleepctl/commands"
)

// MQTT holds broker settings for the sensor and actuator transport
type MQTT struct {
	Broker           string `mapstructure:"broker"`
	ClientID         string `mapstructure:"client_id"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	VitalsTopic      string `mapstructure:"vitals_topic"`
	EnvironmentTopic string `mapstructure:"environment_topic"`
	CommandPrefix    string `mapstructure:"command_prefix"`
}

type Config struct {
	Interval  int    `mapstructure:"interval"`
	Monitor   bool   `mapstructure:"monitor"`
	Debug     bool   `mapstructure:"debug"`
	Verbose   bool   `mapstructure:"verbose"`
	LogLevel  string `mapstructure:"log_level"`
	History   bool   `mapstructure:"history"`
	HistoryDB string `mapstructure:"history_db"`
	SignalTTL int    `mapstructure:"signal_ttl"`
	MQTT      MQTT   `mapstructure:"mqtt"`
}

// TickPeriod returns the optimization tick period
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// SignalMaxAge returns how old a cached sensor sample may be before it is
// treated as unavailable
func (c *Config) SignalMaxAge() time.Duration {
	return time.Duration(c.SignalTTL) * time.Second
}

// Load reads configuration from flags, the environment and the TOML config
// file. Flags win over the file; the file wins over defaults. The config
// file is /etc/sleepctl.toml unless SLEEPCTL_CONFIG points elsewhere.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("sleepctl", pflag.ContinueOnError)
	fs.Int("interval", defaultInterval, "Seconds between optimization ticks")
	fs.Bool("monitor", false, "Observe and classify without actuating")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("history", true, "Persist dispatched nudges to the history database")
	fs.String("history-db", defaultHistoryDB, "Path to the history database")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("monitor", false)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("history", true)
	v.SetDefault("history_db", defaultHistoryDB)
	v.SetDefault("signal_ttl", defaultSignalTTL)
	v.SetDefault("mqtt.broker", defaultBroker)
	v.SetDefault("mqtt.client_id", defaultClientID)
	v.SetDefault("mqtt.vitals_topic", defaultVitals)
	v.SetDefault("mqtt.environment_topic", defaultEnv)
	v.SetDefault("mqtt.command_prefix", defaultCommands)

	for flagName, key := range map[string]string{
		"interval":   "interval",
		"monitor":    "monitor",
		"debug":      "debug",
		"verbose":    "verbose",
		"log-level":  "log_level",
		"history":    "history",
		"history-db": "history_db",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if path := os.Getenv("SLEEPCTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("sleepctl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.History && c.HistoryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "history enabled without a database path")
	}

	return nil
}
