package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting shared by the api, worker, consumer and migrate
// binaries. Values come from an optional YAML file (CONFIG_PATH) and are
// overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"-"`
	WriteTimeout    time.Duration `yaml:"-"`
	IdleTimeout     time.Duration `yaml:"-"`
	ReadTimeoutRaw  string        `yaml:"read_timeout"`
	WriteTimeoutRaw string        `yaml:"write_timeout"`
	IdleTimeoutRaw  string        `yaml:"idle_timeout"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	MaxRetries int    `yaml:"max_retries"`
}

// RedisConfig is optional; an empty Addr disables caching and idempotency.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type KafkaConfig struct {
	Broker        string `yaml:"broker"`
	ConsumerGroup string `yaml:"consumer_group"`
}

// Load reads .env (when present), the YAML file named by CONFIG_PATH (when
// set) and finally the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(os.Getenv("CONFIG_PATH"))
}

// LoadFile is Load without the .env step. An empty path skips the YAML file.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeoutRaw:  "5s",
			WriteTimeoutRaw: "10s",
			IdleTimeoutRaw:  "60s",
		},
		Database: DatabaseConfig{
			SSLMode:    "disable",
			MaxRetries: 5,
		},
		Kafka: KafkaConfig{
			ConsumerGroup: "paytrack-payroll-run",
		},
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Kafka.Broker, "KAFKA_BROKER")
	setString(&c.Kafka.ConsumerGroup, "KAFKA_CONSUMER_GROUP")

	if v := os.Getenv("DB_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: DB_MAX_RETRIES: %w", err)
		}
		c.Database.MaxRetries = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.Port == "" {
		return errors.New("config: server.port must be set")
	}

	var err error
	if c.Server.ReadTimeout, err = parseDurationAllowEmpty(c.Server.ReadTimeoutRaw); err != nil {
		return fmt.Errorf("config: server.read_timeout: %w", err)
	}
	if c.Server.WriteTimeout, err = parseDurationAllowEmpty(c.Server.WriteTimeoutRaw); err != nil {
		return fmt.Errorf("config: server.write_timeout: %w", err)
	}
	if c.Server.IdleTimeout, err = parseDurationAllowEmpty(c.Server.IdleTimeoutRaw); err != nil {
		return fmt.Errorf("config: server.idle_timeout: %w", err)
	}

	return c.Database.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return errors.New("config: database.host must be set")
	}
	if d.Port == "" {
		d.Port = "5432"
	}
	if d.User == "" {
		return errors.New("config: database.user must be set")
	}
	if d.Name == "" {
		return errors.New("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxRetries < 1 {
		d.MaxRetries = 1
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN is the keyword/value form accepted by gorm's postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL is the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
