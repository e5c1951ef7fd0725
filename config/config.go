package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Auth     AuthConfig     `yaml:"auth"`
	Worker   WorkerConfig   `yaml:"worker"`
	Booking  BookingConfig  `yaml:"booking"`
}

type HTTPConfig struct {
	Address     string `yaml:"address"`
	SwaggerFile string `yaml:"swagger_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

// RazorpayConfig carries the provider credentials. Secrets come from the
// environment, never from the yaml file.
type RazorpayConfig struct {
	BaseURL       string `yaml:"base_url"`
	KeyID         string `yaml:"-"`
	KeySecret     string `yaml:"-"`
	WebhookSecret string `yaml:"-"`
	Currency      string `yaml:"currency"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"-"`
}

type WorkerConfig struct {
	OversellSweepMinutes int `yaml:"oversell_sweep_minutes"`
}

type BookingConfig struct {
	FlightsCacheTTL int `yaml:"flights_cache_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	// best effort: a missing .env just means the environment is already set
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Razorpay.KeyID = os.Getenv("RAZORPAY_KEY_ID")
	cfg.Razorpay.KeySecret = os.Getenv("RAZORPAY_KEY_SECRET")
	cfg.Razorpay.WebhookSecret = os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Razorpay.Currency == "" {
		cfg.Razorpay.Currency = "INR"
	}

	return &cfg, nil
}
