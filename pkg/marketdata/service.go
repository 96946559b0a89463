// Package marketdata is the client side of the market data API. It
// caches responses in memory with market-hours-aware TTLs, falls back
// to a same-origin proxy path when the primary endpoint 404s, and
// never returns an error from its accessors: failures collapse to
// well-formed empty results.
package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Default TTLs mirror the server-side cache behavior.
const (
	DefaultMarketHoursTTL = 30 * time.Second
	DefaultOffHoursTTL    = 5 * time.Minute

	defaultProxyPath = "/api/market"
)

// Options configures the client service.
type Options struct {
	// BaseURL is the primary aggregation API base, e.g.
	// "https://api.example.com/api/market".
	BaseURL string
	// ProxyPath is the same-origin fallback used when the primary
	// returns 404. Defaults to "/api/market".
	ProxyPath string
	// TTLs; zero values take the defaults.
	MarketHoursTTL time.Duration
	OffHoursTTL    time.Duration
	// HTTPClient overrides the default 10s-timeout client.
	HTTPClient *http.Client
}

type cacheEntry struct {
	value     interface{}
	timestamp time.Time
}

// Service is a caching client for the market data API. Safe for
// concurrent use.
type Service struct {
	opts   Options
	client *http.Client
	logger *logrus.Entry

	mu    sync.Mutex
	cache map[string]cacheEntry

	now func() time.Time
}

// New creates a market data client
func New(opts Options, log *logrus.Logger) *Service {
	if opts.ProxyPath == "" {
		opts.ProxyPath = defaultProxyPath
	}
	if opts.BaseURL == "" {
		opts.BaseURL = opts.ProxyPath
	}
	if opts.MarketHoursTTL <= 0 {
		opts.MarketHoursTTL = DefaultMarketHoursTTL
	}
	if opts.OffHoursTTL <= 0 {
		opts.OffHoursTTL = DefaultOffHoursTTL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Service{
		opts:   opts,
		client: client,
		logger: log.WithField("component", "marketdata-client"),
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// ttl returns the cache TTL in effect right now. US equity trading
// hours, Mon-Fri 14:30-21:00 UTC, use the short TTL.
func (s *Service) ttl(now time.Time) time.Duration {
	if isMarketHours(now) {
		return s.opts.MarketHoursTTL
	}
	return s.opts.OffHoursTTL
}

func isMarketHours(t time.Time) bool {
	utc := t.UTC()
	switch utc.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := utc.Hour()*60 + utc.Minute()
	return minute >= 14*60+30 && minute < 21*60
}

// cached returns a fresh cache entry value, nil when absent or expired
func (s *Service) cached(key string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil
	}
	// TTL is picked from the wall clock at read time, so an entry
	// stored just before the close survives on the long TTL once the
	// session ends.
	now := s.now()
	if now.Sub(entry.timestamp) >= s.ttl(now) {
		return nil
	}
	return entry.value
}

func (s *Service) store(key string, value interface{}) {
	s.mu.Lock()
	s.cache[key] = cacheEntry{value: value, timestamp: s.now()}
	s.mu.Unlock()
}

// ClearCache evicts every cached entry
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// ClearCacheFor evicts the cached entry for one country
func (s *Service) ClearCacheFor(country string) {
	s.mu.Lock()
	delete(s.cache, countryKey(country))
	s.mu.Unlock()
}

func countryKey(country string) string {
	return "country_" + strings.ToUpper(country)
}

// GetMarketDataByCountry returns the aggregated market snapshot for a
// country. Never returns an error: on failure the result is a
// well-formed empty response with Region set to the requested country.
func (s *Service) GetMarketDataByCountry(ctx context.Context, country string) models.MarketDataResponse {
	country = strings.ToUpper(country)
	key := countryKey(country)

	if v := s.cached(key); v != nil {
		return v.(models.MarketDataResponse)
	}

	body, err := s.get(ctx, s.opts.BaseURL+"/country/"+country)
	if err != nil {
		// A 404 from the primary can mean the deployment only exposes
		// the same-origin proxy. Retry once there, but only when the
		// two URLs actually differ.
		if isNotFound(err) && s.opts.BaseURL != s.opts.ProxyPath {
			body, err = s.get(ctx, s.opts.ProxyPath+"/country/"+country)
		}
	}
	if err != nil {
		s.logger.WithError(err).WithField("country", country).Warn("Country fetch failed, serving empty")
		return models.EmptyMarketDataResponse(country, s.now().Add(s.opts.OffHoursTTL))
	}

	// The default expiry when the payload carries none is always the
	// long TTL; only an explicit server value tightens it.
	resp := Normalize(body, country, s.now().Add(s.opts.OffHoursTTL))
	s.store(key, resp)
	return resp
}

// GetIndicesBySymbols returns index quotes for an explicit symbol set.
// Fails soft to an empty slice.
func (s *Service) GetIndicesBySymbols(ctx context.Context, symbols []string) []models.MarketIndex {
	if len(symbols) == 0 {
		return []models.MarketIndex{}
	}

	key := "symbols_" + strings.Join(symbols, ",")
	if v := s.cached(key); v != nil {
		return v.([]models.MarketIndex)
	}

	payload, err := json.Marshal(map[string][]string{"symbols": symbols})
	if err != nil {
		return []models.MarketIndex{}
	}

	body, err := s.post(ctx, s.opts.BaseURL+"/indices", payload)
	if err != nil {
		s.logger.WithError(err).Warn("Indices fetch failed, serving empty")
		return []models.MarketIndex{}
	}

	indices := normalizeIndices(body)
	s.store(key, indices)
	return indices
}

// GetCommodities returns commodity quotes, optionally filtered by
// category and converted into a currency. Fails soft to an empty slice.
func (s *Service) GetCommodities(ctx context.Context, category, currency string) []models.Commodity {
	key := fmt.Sprintf("commodities_%s_%s", category, currency)
	if v := s.cached(key); v != nil {
		return v.([]models.Commodity)
	}

	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if currency != "" {
		q.Set("currency", currency)
	}

	body, err := s.get(ctx, withQuery(s.opts.BaseURL+"/commodities", q))
	if err != nil {
		s.logger.WithError(err).Warn("Commodities fetch failed, serving empty")
		return []models.Commodity{}
	}

	commodities := normalizeCommodities(body)
	s.store(key, commodities)
	return commodities
}

// GetCurrencies returns currency pairs, optionally restricted to a
// pair list. Fails soft to an empty slice.
func (s *Service) GetCurrencies(ctx context.Context, pairs []string) []models.Currency {
	key := "currencies_" + strings.Join(pairs, ",")
	if v := s.cached(key); v != nil {
		return v.([]models.Currency)
	}

	q := url.Values{}
	if len(pairs) > 0 {
		q.Set("pairs", strings.Join(pairs, ","))
	}

	body, err := s.get(ctx, withQuery(s.opts.BaseURL+"/currencies", q))
	if err != nil {
		s.logger.WithError(err).Warn("Currencies fetch failed, serving empty")
		return []models.Currency{}
	}

	currencies := normalizeCurrencies(body)
	s.store(key, currencies)
	return currencies
}

// GetCryptocurrencies returns crypto quotes, optionally restricted to
// a symbol set and converted into a currency. Fails soft to an empty
// slice.
func (s *Service) GetCryptocurrencies(ctx context.Context, symbols []string, currency string) []models.CryptoCurrency {
	key := fmt.Sprintf("crypto_%s_%s", strings.Join(symbols, ","), currency)
	if v := s.cached(key); v != nil {
		return v.([]models.CryptoCurrency)
	}

	q := url.Values{}
	if len(symbols) > 0 {
		q.Set("symbols", strings.Join(symbols, ","))
	}
	if currency != "" {
		q.Set("currency", currency)
	}

	body, err := s.get(ctx, withQuery(s.opts.BaseURL+"/crypto", q))
	if err != nil {
		s.logger.WithError(err).Warn("Crypto fetch failed, serving empty")
		return []models.CryptoCurrency{}
	}

	cryptos := normalizeCryptos(body)
	s.store(key, cryptos)
	return cryptos
}

// HTTP plumbing

type httpError struct {
	status int
	url    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.status, e.url)
}

func isNotFound(err error) bool {
	he, ok := err.(*httpError)
	return ok && he.status == http.StatusNotFound
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return s.do(req)
}

func (s *Service) post(ctx context.Context, rawURL string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *Service) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &httpError{status: resp.StatusCode, url: req.URL.String()}
	}

	return io.ReadAll(resp.Body)
}

func withQuery(rawURL string, q url.Values) string {
	if len(q) == 0 {
		return rawURL
	}
	return rawURL + "?" + q.Encode()
}
