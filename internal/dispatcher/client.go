package dispatcher

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/zerotwo/meteo-collector/internal/config"
)

// NewClient builds an MQTT client from the broker configuration. Reconnection
// after a dropped connection is the client's job; the persistent session keeps
// station subscriptions alive across reconnects.
func NewClient(cfg config.Config, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL()).
		SetClientID(clientID).
		SetUsername(cfg.BrokerUser).
		SetPassword(cfg.BrokerPass).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectTimeout(4 * time.Second).
		SetConnectRetryInterval(5 * time.Second)

	if cfg.UseTLS() {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	return mqtt.NewClient(opts), nil
}

func newTLSConfig(cfg config.Config) (*tls.Config, error) {
	caPEM, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates in %s", cfg.CAFile)
	}

	tlsCfg := &tls.Config{RootCAs: pool}
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client keypair: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}
