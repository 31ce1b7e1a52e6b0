package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	HTTP     HTTPConfig     `yaml:"http"`
	Orders   OrdersConfig   `yaml:"orders"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	TLS      bool   `yaml:"tls"`
}

type HTTPConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type OrdersConfig struct {
	// RequireHistory rejects orders for restaurants and customers that have
	// no previous orders.
	RequireHistory bool   `yaml:"require_history"`
	StatusFlow     string `yaml:"status_flow"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		HTTP:     HTTPConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Orders:   OrdersConfig{RequireHistory: true, StatusFlow: "open"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the optional YAML file at path, then .env, then the process
// environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", cfg.Database.MaxConns)

	cfg.RabbitMQ.Enabled = getEnvBool("RABBITMQ_ENABLED", cfg.RabbitMQ.Enabled)
	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", cfg.RabbitMQ.Host)
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", cfg.RabbitMQ.Port)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", cfg.RabbitMQ.User)
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RabbitMQ.Password)
	cfg.RabbitMQ.VHost = getEnv("RABBITMQ_VHOST", cfg.RabbitMQ.VHost)
	cfg.RabbitMQ.TLS = getEnvBool("RABBITMQ_TLS", cfg.RabbitMQ.TLS)

	cfg.HTTP.Port = getEnvInt("HTTP_PORT", cfg.HTTP.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	cfg.Orders.RequireHistory = getEnvBool("ORDERS_REQUIRE_HISTORY", cfg.Orders.RequireHistory)
	cfg.Orders.StatusFlow = getEnv("ORDER_STATUS_FLOW", cfg.Orders.StatusFlow)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
}

// Validate checks the settings the selected mode depends on.
func (c *Config) Validate(needDB, needMQ bool) error {
	if needDB && (c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "") {
		return errors.New("database config incomplete")
	}
	if needMQ && (c.RabbitMQ.Host == "" || c.RabbitMQ.User == "") {
		return errors.New("rabbitmq config incomplete")
	}
	switch c.Orders.StatusFlow {
	case "open", "forward":
	default:
		return fmt.Errorf("unknown order status flow %q", c.Orders.StatusFlow)
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
