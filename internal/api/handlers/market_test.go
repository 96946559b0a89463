package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

type stubStore struct {
	indices []models.IndexRow
	cryptos []models.CryptoRow
	rates   map[string]float64
	commods []models.CommodityRow
	fail    bool
}

var errStub = errors.New("store unavailable")

func (s *stubStore) IndicesByCountry(ctx context.Context, country string) ([]models.IndexRow, error) {
	if s.fail {
		return nil, errStub
	}
	return s.indices, nil
}

func (s *stubStore) IndicesBySymbols(ctx context.Context, symbols []string) ([]models.IndexRow, error) {
	if s.fail {
		return nil, errStub
	}
	var out []models.IndexRow
	for _, row := range s.indices {
		for _, sym := range symbols {
			if row.Symbol == sym {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (s *stubStore) IndexConfigs(ctx context.Context) ([]models.IndexConfig, error) {
	if s.fail {
		return nil, errStub
	}
	return nil, nil
}

func (s *stubStore) Cryptocurrencies(ctx context.Context, limit int) ([]models.CryptoRow, error) {
	if s.fail {
		return nil, errStub
	}
	if limit < len(s.cryptos) {
		return s.cryptos[:limit], nil
	}
	return s.cryptos, nil
}

func (s *stubStore) CurrencyRates(ctx context.Context) ([]models.CurrencyRateRow, error) {
	if s.fail {
		return nil, errStub
	}
	var out []models.CurrencyRateRow
	for c, r := range s.rates {
		out = append(out, models.CurrencyRateRow{Currency: c, RateToUSD: r})
	}
	return out, nil
}

func (s *stubStore) Commodities(ctx context.Context, category string) ([]models.CommodityRow, error) {
	if s.fail {
		return nil, errStub
	}
	return s.commods, nil
}

func (s *stubStore) CurrencyRate(ctx context.Context, currency string) (*models.CurrencyRateRow, error) {
	if s.fail {
		return nil, errStub
	}
	rate, ok := s.rates[currency]
	if !ok {
		return nil, nil
	}
	return &models.CurrencyRateRow{Currency: currency, RateToUSD: rate}, nil
}

func newTestRouter(store *stubStore) *mux.Router {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	cfg := &config.MarketConfig{CryptoLimit: 10}
	builder := market.NewBuilder(store, cfg.CryptoLimit, log)
	h := NewMarketHandler(builder, store, store, nil, cfg, log)

	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/market").Subrouter())
	return router
}

func defaultStore() *stubStore {
	return &stubStore{
		indices: []models.IndexRow{
			{Symbol: "^GSPC", Name: "S&P 500", Value: 5100, Country: "US", Currency: "USD", LastUpdated: time.Now()},
		},
		cryptos: []models.CryptoRow{
			{Symbol: "BTC", Name: "Bitcoin", ValueUSD: 62000, LastUpdated: time.Now()},
		},
		rates: map[string]float64{
			"EUR": 1.08,
			"INR": 0.012,
		},
		commods: []models.CommodityRow{
			{Symbol: "GC", Name: "Gold", ValueUSD: 2300, Category: "metals"},
		},
	}
}

func TestCountryEndpointCacheControl(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodGet, "/api/market/country/us", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=30, stale-while-revalidate=60" {
		t.Errorf("Cache-Control = %q", got)
	}

	var resp models.MarketDataResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.UserContext == nil || resp.UserContext.Country != "US" {
		t.Errorf("userContext = %+v, want country US (path lowercased input)", resp.UserContext)
	}
	if resp.Indices == nil || resp.Currencies == nil || resp.CryptoCurrencies == nil || resp.Commodities == nil {
		t.Error("collections must be present")
	}
}

func TestCountryEndpointFailure(t *testing.T) {
	store := defaultStore()
	store.fail = true
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/market/country/US", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "Failed to fetch market data from cache" {
		t.Errorf("error body = %q", body["error"])
	}
}

func TestPostIndices(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodPost, "/api/market/indices",
		strings.NewReader(`{"symbols": ["^GSPC", "^MISSING"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success bool              `json:"success"`
		Indices []models.IndexRow `json:"indices"`
		Count   int               `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !body.Success || body.Count != 1 || body.Indices[0].Symbol != "^GSPC" {
		t.Errorf("body = %+v", body)
	}
}

func TestPostIndicesEmptyBody(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodPost, "/api/market/indices", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestConvert(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodGet, "/api/market/convert?amount=100&from=EUR&to=INR", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success   bool    `json:"success"`
		AmountUSD float64 `json:"amountUSD"`
		Result    float64 `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	wantUSD := 100 * 1.08
	wantResult := wantUSD / 0.012
	if math.Abs(body.AmountUSD-wantUSD) > 1e-9 {
		t.Errorf("amountUSD = %v, want %v", body.AmountUSD, wantUSD)
	}
	if math.Abs(body.Result-wantResult) > 1e-6 {
		t.Errorf("result = %v, want %v", body.Result, wantResult)
	}
}

func TestConvertValidation(t *testing.T) {
	router := newTestRouter(defaultStore())

	t.Run("missing params", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/market/convert?amount=100&from=EUR", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown currency", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/market/convert?amount=100&from=EUR&to=XXX", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("usd is implicit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/market/convert?amount=50&from=USD&to=EUR", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestCurrenciesEndpointPairsFilter(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodGet, "/api/market/currencies?pairs=USD/EUR", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Currencies []models.Currency `json:"currencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(body.Currencies) != 1 {
		t.Fatalf("currencies = %d, want 1", len(body.Currencies))
	}
	c := body.Currencies[0]
	if c.Pair != "USD/EUR" || c.BaseCurrency != "USD" {
		t.Errorf("pair = %+v", c)
	}
	if math.Abs(c.Rate-1/1.08) > 1e-9 {
		t.Errorf("USD/EUR rate = %v, want %v", c.Rate, 1/1.08)
	}
}

func TestCryptoEndpointCurrencyConversion(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodGet, "/api/market/crypto?currency=INR", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		CryptoCurrencies []models.CryptoCurrency `json:"cryptocurrencies"`
		Currency         string                  `json:"currency"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Currency != "INR" {
		t.Errorf("currency = %s, want INR", body.Currency)
	}
	if len(body.CryptoCurrencies) != 1 {
		t.Fatalf("cryptos = %d, want 1", len(body.CryptoCurrencies))
	}

	wantLocal := 62000 / 0.012
	if math.Abs(body.CryptoCurrencies[0].ValueLocal-wantLocal) > 1 {
		t.Errorf("valueLocal = %v, want about %v", body.CryptoCurrencies[0].ValueLocal, wantLocal)
	}
}

func TestCryptoEndpointBadLimit(t *testing.T) {
	router := newTestRouter(defaultStore())

	req := httptest.NewRequest(http.MethodGet, "/api/market/crypto?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
