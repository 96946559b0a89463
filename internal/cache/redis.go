package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Key layout:
//   market:country:<CC>   assembled country response
//   market:health         last health report
const (
	countryKeyPrefix  = "market:country:"
	CountryKeyPattern = "market:country:*"
	healthKey         = "market:health"
)

// RedisClient handles Redis caching operations
type RedisClient struct {
	client *redis.Client
	logger *logrus.Entry
	cfg    *config.RedisConfig
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  5 * time.Minute,
		MaxRetries:   2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		logger: logger.WithField("component", "redis"),
		cfg:    cfg,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// Health checks Redis health
func (rc *RedisClient) Health(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Country response operations

// CountryKey returns the cache key for a country response
func CountryKey(country string) string {
	return countryKeyPrefix + strings.ToUpper(country)
}

// SetCountryResponse caches the assembled response for a country
func (rc *RedisClient) SetCountryResponse(ctx context.Context, country string, resp *models.MarketDataResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal country response: %w", err)
	}

	return rc.client.Set(ctx, CountryKey(country), data, ttl).Err()
}

// GetCountryResponse retrieves a cached country response. Returns nil
// without error on a cache miss.
func (rc *RedisClient) GetCountryResponse(ctx context.Context, country string) (*models.MarketDataResponse, error) {
	data, err := rc.client.Get(ctx, CountryKey(country)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country response: %w", err)
	}

	var resp models.MarketDataResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal country response: %w", err)
	}

	return &resp, nil
}

// InvalidateCountries removes every cached country response
func (rc *RedisClient) InvalidateCountries(ctx context.Context) error {
	return rc.DeletePattern(ctx, CountryKeyPattern)
}

// Health report operations

// SetHealthReport caches the latest health report
func (rc *RedisClient) SetHealthReport(ctx context.Context, report *models.HealthReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal health report: %w", err)
	}

	return rc.client.Set(ctx, healthKey, data, ttl).Err()
}

// GetHealthReport retrieves the cached health report, nil on miss
func (rc *RedisClient) GetHealthReport(ctx context.Context) (*models.HealthReport, error) {
	data, err := rc.client.Get(ctx, healthKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get health report: %w", err)
	}

	var report models.HealthReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal health report: %w", err)
	}

	return &report, nil
}

// Utility operations

// SetJSON stores a JSON-encoded value
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return rc.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON retrieves and decodes a JSON value. The bool reports whether
// the key existed.
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return true, nil
}

// Delete removes keys
func (rc *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// DeletePattern deletes all keys matching a pattern
func (rc *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	var keys []string

	for {
		var err error
		var batch []string
		batch, cursor, err = rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	if len(keys) > 0 {
		return rc.client.Del(ctx, keys...).Err()
	}

	return nil
}
