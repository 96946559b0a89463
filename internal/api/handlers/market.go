package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// ResponseCache is the slice of the Redis client the market handler
// needs. Nil disables caching.
type ResponseCache interface {
	GetCountryResponse(ctx context.Context, country string) (*models.MarketDataResponse, error)
	SetCountryResponse(ctx context.Context, country string, resp *models.MarketDataResponse, ttl time.Duration) error
}

// RateStore resolves a single currency rate for conversions.
type RateStore interface {
	CurrencyRate(ctx context.Context, currency string) (*models.CurrencyRateRow, error)
}

// MarketHandler serves the market data endpoints
type MarketHandler struct {
	builder *market.Builder
	store   market.Store
	rates   RateStore
	cache   ResponseCache
	cfg     *config.MarketConfig
	logger  *logrus.Entry
	now     func() time.Time
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(
	builder *market.Builder,
	store market.Store,
	rates RateStore,
	cache ResponseCache,
	cfg *config.MarketConfig,
	logger *logrus.Logger,
) *MarketHandler {
	return &MarketHandler{
		builder: builder,
		store:   store,
		rates:   rates,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.WithField("component", "market-handler"),
		now:     time.Now,
	}
}

// RegisterRoutes registers market data routes on the given router
func (h *MarketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/country/{country}", h.handleCountry).Methods("GET")
	router.HandleFunc("/indices", h.handleGetIndices).Methods("GET")
	router.HandleFunc("/indices", h.handlePostIndices).Methods("POST")
	router.HandleFunc("/crypto", h.handleCrypto).Methods("GET")
	router.HandleFunc("/currencies", h.handleCurrencies).Methods("GET")
	router.HandleFunc("/commodities", h.handleCommodities).Methods("GET")
	router.HandleFunc("/convert", h.handleConvert).Methods("GET")
}

// handleCountry serves the aggregated per-country market payload.
// Cached responses are served as-is; the CDN header allows 30s of
// shared caching with a 60s stale window.
func (h *MarketHandler) handleCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	country := strings.ToUpper(mux.Vars(r)["country"])

	if h.cache != nil {
		cached, err := h.cache.GetCountryResponse(ctx, country)
		if err != nil {
			h.logger.WithError(err).WithField("country", country).Warn("Cache read failed")
		}
		if cached != nil {
			writeCountryResponse(w, cached)
			return
		}
	}

	resp, err := h.builder.BuildCountryResponse(ctx, country)
	if err != nil {
		h.logger.WithError(err).WithField("country", country).Error("Failed to build country response")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	if h.cache != nil {
		ttl := market.TTLFor(h.now())
		if err := h.cache.SetCountryResponse(ctx, country, resp, ttl); err != nil {
			h.logger.WithError(err).WithField("country", country).Warn("Cache write failed")
		}
	}

	writeCountryResponse(w, resp)
}

func writeCountryResponse(w http.ResponseWriter, resp *models.MarketDataResponse) {
	w.Header().Set("Cache-Control", "public, s-maxage=30, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, resp)
}

// handleGetIndices serves index rows filtered by country or symbols
func (h *MarketHandler) handleGetIndices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rows []models.IndexRow
	var err error

	if symbols := r.URL.Query().Get("symbols"); symbols != "" {
		rows, err = h.store.IndicesBySymbols(ctx, splitList(symbols))
	} else if country := r.URL.Query().Get("country"); country != "" {
		rows, err = h.store.IndicesByCountry(ctx, strings.ToUpper(country))
	} else {
		writeError(w, http.StatusBadRequest, "country or symbols parameter is required")
		return
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch indices")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"indices": emptyIfNilIndex(rows),
		"count":   len(rows),
	})
}

// handlePostIndices serves index rows for a symbol list in the body
func (h *MarketHandler) handlePostIndices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.Symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols list is required")
		return
	}

	rows, err := h.store.IndicesBySymbols(ctx, body.Symbols)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch indices")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"indices": emptyIfNilIndex(rows),
		"count":   len(rows),
	})
}

// handleCrypto serves the top cryptocurrencies, optionally converted
// into a target currency via valueLocal.
func (h *MarketHandler) handleCrypto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := h.cfg.CryptoLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := h.store.Cryptocurrencies(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch cryptocurrencies")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	exchangeRate := 1.0
	currency := strings.ToUpper(r.URL.Query().Get("currency"))
	if currency != "" && currency != "USD" {
		rate, err := h.rates.CurrencyRate(ctx, currency)
		if err != nil {
			h.logger.WithError(err).WithField("currency", currency).Warn("Rate lookup failed, serving USD values")
		} else if rate != nil {
			exchangeRate = market.USDToLocal(rate.RateToUSD)
		}
	}

	out := make([]models.CryptoCurrency, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.CryptoCurrency{
			Symbol:           row.Symbol,
			Name:             row.Name,
			Value:            row.ValueUSD,
			ValueLocal:       row.ValueUSD * exchangeRate,
			MarketCap:        row.MarketCap,
			Rank:             row.Rank,
			Change24h:        row.Change24h,
			ChangePercent24h: row.ChangePercent24h,
			Priority:         market.CryptoPriorityFor(row.Symbol),
			LastUpdated:      row.LastUpdated,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"cryptocurrencies": out,
		"currency":         orDefault(currency, "USD"),
		"count":            len(out),
	})
}

// handleCurrencies serves currency pairs with USD as the base,
// optionally restricted to a comma-separated pairs filter.
func (h *MarketHandler) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.store.CurrencyRates(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch currency rates")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	var wanted map[string]bool
	if raw := r.URL.Query().Get("pairs"); raw != "" {
		wanted = make(map[string]bool)
		for _, p := range splitList(raw) {
			wanted[strings.ToUpper(p)] = true
		}
	}

	out := make([]models.Currency, 0, len(rows))
	for _, row := range rows {
		pair := "USD/" + row.Currency
		if wanted != nil && !wanted[pair] {
			continue
		}
		rate := market.CrossRate(1, row.RateToUSD)
		if rate == 0 {
			continue
		}
		out = append(out, models.Currency{
			Pair:          pair,
			BaseCurrency:  "USD",
			QuoteCurrency: row.Currency,
			Rate:          rate,
			RateToUSD:     row.RateToUSD,
			Change:        row.Change,
			LastUpdated:   row.LastUpdated,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"currencies": out,
		"count":      len(out),
	})
}

// handleCommodities serves cached commodities, optionally by category
func (h *MarketHandler) handleCommodities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	rows, err := h.store.Commodities(ctx, category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch commodities")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	if rows == nil {
		rows = []models.CommodityRow{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"commodities": rows,
		"count":       len(rows),
	})
}

// handleConvert converts an amount between two currencies through
// their USD rates: amount * rateToUSD(from) / rateToUSD(to).
func (h *MarketHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	amountStr := q.Get("amount")
	from := strings.ToUpper(q.Get("from"))
	to := strings.ToUpper(q.Get("to"))

	if amountStr == "" || from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "amount, from and to parameters are required")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}

	fromRate, err := h.lookupRate(ctx, from)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch currency rate")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	toRate, err := h.lookupRate(ctx, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch currency rate")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	if fromRate <= 0 {
		writeError(w, http.StatusNotFound, "unknown currency: "+from)
		return
	}
	if toRate <= 0 {
		writeError(w, http.StatusNotFound, "unknown currency: "+to)
		return
	}

	amountUSD, _ := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(fromRate)).Float64()
	result, _ := decimal.NewFromFloat(amountUSD).Div(decimal.NewFromFloat(toRate)).Float64()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"amount":    amount,
		"from":      from,
		"to":        to,
		"amountUSD": amountUSD,
		"result":    result,
		"rate":      market.CrossRate(fromRate, toRate),
	})
}

// lookupRate returns a currency's USD rate, 0 when unknown. USD is
// implicit and never stored.
func (h *MarketHandler) lookupRate(ctx context.Context, currency string) (float64, error) {
	if currency == "USD" {
		return 1, nil
	}
	row, err := h.rates.CurrencyRate(ctx, currency)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.RateToUSD, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func emptyIfNilIndex(rows []models.IndexRow) []models.IndexRow {
	if rows == nil {
		return []models.IndexRow{}
	}
	return rows
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
