package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	JWT         JWTConfig         `yaml:"jwt"`
	Reservation ReservationConfig `yaml:"reservation"`
	Worker      WorkerConfig      `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
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
	EventsTopic        string   `yaml:"events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type ReservationConfig struct {
	ArrivalEarlyMinutes    int `yaml:"arrival_early_minutes"`
	ArrivalLateMinutes     int `yaml:"arrival_late_minutes"`
	NoShowGraceMinutes     int `yaml:"no_show_grace_minutes"`
	VenueCacheTTLSeconds   int `yaml:"venue_cache_ttl_seconds"`
	AvailabilityTTLSeconds int `yaml:"availability_cache_ttl_seconds"`
}

type WorkerConfig struct {
	NoShowSweepMinutes int `yaml:"no_show_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Reservation.ArrivalEarlyMinutes == 0 {
		c.Reservation.ArrivalEarlyMinutes = 10
	}
	if c.Reservation.ArrivalLateMinutes == 0 {
		c.Reservation.ArrivalLateMinutes = 30
	}
	if c.Reservation.NoShowGraceMinutes == 0 {
		c.Reservation.NoShowGraceMinutes = 60
	}
	if c.Reservation.VenueCacheTTLSeconds == 0 {
		c.Reservation.VenueCacheTTLSeconds = 300
	}
	if c.Reservation.AvailabilityTTLSeconds == 0 {
		c.Reservation.AvailabilityTTLSeconds = 30
	}
	if c.Worker.NoShowSweepMinutes == 0 {
		c.Worker.NoShowSweepMinutes = 5
	}
}
