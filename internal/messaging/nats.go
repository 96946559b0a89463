package messaging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// ScraperEvent is published by the scraper after a run finishes. It is
// the signal to drop the assembled country caches.
type ScraperEvent struct {
	ScraperName string    `json:"scraperName"`
	DataType    string    `json:"dataType"`
	Status      string    `json:"status"`
	ItemsFound  int       `json:"itemsFound"`
	Timestamp   time.Time `json:"timestamp"`
}

// NATSClient handles NATS messaging operations
type NATSClient struct {
	conn   *nats.Conn
	logger *logrus.Entry
	cfg    *config.NATSConfig

	subs   map[string]*nats.Subscription
	subsMu sync.RWMutex
}

// NewNATSClient creates a new NATS client
func NewNATSClient(cfg *config.NATSConfig, logger *logrus.Logger) (*NATSClient, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSClient{
		conn:   conn,
		logger: logger.WithField("component", "nats"),
		cfg:    cfg,
		subs:   make(map[string]*nats.Subscription),
	}, nil
}

// Close closes the NATS connection
func (nc *NATSClient) Close() error {
	nc.subsMu.Lock()
	for _, sub := range nc.subs {
		sub.Unsubscribe()
	}
	nc.subs = make(map[string]*nats.Subscription)
	nc.subsMu.Unlock()

	nc.conn.Close()
	return nil
}

// Drain drains the connection (graceful shutdown)
func (nc *NATSClient) Drain() error {
	return nc.conn.Drain()
}

// IsConnected checks if NATS is connected
func (nc *NATSClient) IsConnected() bool {
	return nc.conn.IsConnected()
}

// SubscribeScraperEvents subscribes to scraper completion events on the
// configured subject.
func (nc *NATSClient) SubscribeScraperEvents(subject string, handler func(*ScraperEvent)) error {
	sub, err := nc.conn.Subscribe(subject, func(msg *nats.Msg) {
		var event ScraperEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			nc.logger.WithError(err).Error("Failed to unmarshal scraper event")
			return
		}
		handler(&event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	nc.subsMu.Lock()
	nc.subs[subject] = sub
	nc.subsMu.Unlock()

	return nil
}

// PublishScraperEvent publishes a scraper completion event. Used by the
// migrate seed path and by tests; in production the scraper publishes.
func (nc *NATSClient) PublishScraperEvent(subject string, event *ScraperEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal scraper event: %w", err)
	}

	if err := nc.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish scraper event: %w", err)
	}
	return nil
}

// PublishHealthStatus publishes the overall health status for any
// listening monitors.
func (nc *NATSClient) PublishHealthStatus(status *models.HealthStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal health status: %w", err)
	}

	if err := nc.conn.Publish("market.health", data); err != nil {
		return fmt.Errorf("failed to publish health status: %w", err)
	}
	return nil
}

// Unsubscribe unsubscribes from a subject
func (nc *NATSClient) Unsubscribe(subject string) error {
	nc.subsMu.Lock()
	defer nc.subsMu.Unlock()

	if sub, exists := nc.subs[subject]; exists {
		if err := sub.Unsubscribe(); err != nil {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}
		delete(nc.subs, subject)
	}

	return nil
}
