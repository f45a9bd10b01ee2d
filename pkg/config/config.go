// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and PIZZARIA_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pizzaflow/pkg/order/eta"
)

const envPrefix = "PIZZARIA"

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	ETA     eta.Config    `mapstructure:"eta"`
	Events  EventsConfig  `mapstructure:"events"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LedgerConfig struct {
	Balanced bool `mapstructure:"balanced"`
}

type EventsConfig struct {
	// Driver is one of none, redis or kafka.
	Driver string      `mapstructure:"driver"`
	Redis  RedisConfig `mapstructure:"redis"`
	Kafka  KafkaConfig `mapstructure:"kafka"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type TracingConfig struct {
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Probability float64 `mapstructure:"probability"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	d := eta.DefaultConfig()

	v.SetDefault("http.addr", ":5000")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("ledger.balanced", true)
	v.SetDefault("eta.prep_minutes", d.PrepMinutes)
	v.SetDefault("eta.minutes_per_km", d.MinutesPerKm)
	v.SetDefault("eta.default_km", d.DefaultKm)
	v.SetDefault("eta.extra_minutes", d.ExtraMinutes)
	v.SetDefault("eta.max_typo_distance", d.MaxTypoDistance)
	v.SetDefault("eta.districts", d.Districts)
	v.SetDefault("events.driver", "none")
	v.SetDefault("events.redis.addr", "localhost:6379")
	v.SetDefault("events.redis.channel", "pizzaria:pedidos")
	v.SetDefault("events.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("events.kafka.topic", "pedidos")
	v.SetDefault("tracing.service_name", "pizzaria")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.probability", 1.0)
	v.SetDefault("log.level", "info")
}

// Load reads configuration. path may be empty, in which case ./config.yaml
// and ./configs/config.yaml are tried and silently skipped when absent.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.HTTP.Addr == "":
		return errors.New("config: http.addr is required")
	case c.ETA.PrepMinutes < 0 || c.ETA.MinutesPerKm < 0 || c.ETA.DefaultKm < 0 || c.ETA.ExtraMinutes < 0:
		return errors.New("config: eta values must not be negative")
	case c.Tracing.Probability < 0 || c.Tracing.Probability > 1:
		return fmt.Errorf("config: tracing.probability %v out of [0,1]", c.Tracing.Probability)
	}
	switch c.Events.Driver {
	case "none", "":
	case "redis":
		if c.Events.Redis.Addr == "" || c.Events.Redis.Channel == "" {
			return errors.New("config: events.redis.addr and events.redis.channel are required")
		}
	case "kafka":
		if len(c.Events.Kafka.Brokers) == 0 || c.Events.Kafka.Topic == "" {
			return errors.New("config: events.kafka.brokers and events.kafka.topic are required")
		}
	default:
		return fmt.Errorf("config: unknown events.driver %q", c.Events.Driver)
	}
	return nil
}
