package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBrokerPort    = 8883
	defaultSweepInterval = 10 * time.Minute
	defaultAPIPort       = 8080
	defaultAPILimit      = 200
)

// Config holds environment-driven settings shared by the collector and the
// read API.
type Config struct {
	DatabaseURL string

	BrokerHost string
	BrokerPort int
	BrokerUser string
	BrokerPass string
	CAFile     string
	CertFile   string
	KeyFile    string

	SweepInterval time.Duration

	APIPort         int
	APIDefaultLimit int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		BrokerPort:      defaultBrokerPort,
		SweepInterval:   defaultSweepInterval,
		APIPort:         defaultAPIPort,
		APIDefaultLimit: defaultAPILimit,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.BrokerHost = strings.TrimSpace(os.Getenv("MQTT_BROKER_HOST"))
	cfg.BrokerUser = os.Getenv("MQTT_USER")
	cfg.BrokerPass = os.Getenv("MQTT_PASS")
	cfg.CAFile = strings.TrimSpace(os.Getenv("MQTT_CA_FILE"))
	cfg.CertFile = strings.TrimSpace(os.Getenv("MQTT_CERT_FILE"))
	cfg.KeyFile = strings.TrimSpace(os.Getenv("MQTT_KEY_FILE"))

	if portStr := strings.TrimSpace(os.Getenv("MQTT_BROKER_PORT")); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid MQTT_BROKER_PORT: %s", portStr)
		}
		cfg.BrokerPort = port
	}

	if v := strings.TrimSpace(os.Getenv("SWEEP_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, fmt.Errorf("invalid SWEEP_INTERVAL: %s", v)
		}
		cfg.SweepInterval = d
	}

	if portStr := strings.TrimSpace(os.Getenv("PORT")); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.APIPort = port
	}

	if limitStr := strings.TrimSpace(os.Getenv("API_DEFAULT_LIMIT")); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
		cfg.APIDefaultLimit = limit
	}

	return cfg, nil
}

// RequireBroker validates the settings the collector needs beyond Load.
func (c Config) RequireBroker() error {
	if c.BrokerHost == "" {
		return errors.New("MQTT_BROKER_HOST is required")
	}
	return nil
}

// BrokerURL returns the broker address, TLS when certificates are configured.
func (c Config) BrokerURL() string {
	scheme := "tcp"
	if c.UseTLS() {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.BrokerHost, c.BrokerPort)
}

// UseTLS reports whether a TLS client configuration was provided.
func (c Config) UseTLS() bool {
	return c.CAFile != ""
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.APIPort)
}
