package market

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Index display priorities. Lower sorts first.
const (
	priorityLocal         = 1
	priorityGlobalPopular = 2
	priorityRegional      = 3
)

// Builder assembles the country aggregation response from the read cache.
type Builder struct {
	store       Store
	logger      *logrus.Entry
	cryptoLimit int
	now         func() time.Time
}

// NewBuilder creates a country response builder.
func NewBuilder(store Store, cryptoLimit int, log *logrus.Logger) *Builder {
	if cryptoLimit <= 0 {
		cryptoLimit = 10
	}
	return &Builder{
		store:       store,
		logger:      log.WithField("component", "market-builder"),
		cryptoLimit: cryptoLimit,
		now:         time.Now,
	}
}

// BuildCountryResponse builds the full market data payload for one
// country. The four category reads run concurrently; a single failed
// category degrades to empty, but if every read fails the build fails.
func (b *Builder) BuildCountryResponse(ctx context.Context, country string) (*models.MarketDataResponse, error) {
	now := b.now()
	localCurrency := CurrencyForCountry(country)

	var (
		wg sync.WaitGroup

		indexRows   []models.IndexRow
		popularRows []models.IndexRow
		regionRows  []models.IndexRow
		configs     []models.IndexConfig
		cryptoRows  []models.CryptoRow
		rateRows    []models.CurrencyRateRow
		commodRows  []models.CommodityRow

		indexErr, cryptoErr, rateErr, commodErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		indexRows, popularRows, regionRows, configs, indexErr = b.fetchIndices(ctx, country)
	}()
	go func() {
		defer wg.Done()
		cryptoRows, cryptoErr = b.store.Cryptocurrencies(ctx, b.cryptoLimit)
	}()
	go func() {
		defer wg.Done()
		rateRows, rateErr = b.store.CurrencyRates(ctx)
	}()
	go func() {
		defer wg.Done()
		commodRows, commodErr = b.store.Commodities(ctx, "")
	}()
	wg.Wait()

	if indexErr != nil && cryptoErr != nil && rateErr != nil && commodErr != nil {
		return nil, fmt.Errorf("all market data reads failed: %w", indexErr)
	}
	for category, err := range map[string]error{
		"indices": indexErr, "crypto": cryptoErr, "currencies": rateErr, "commodities": commodErr,
	} {
		if err != nil {
			b.logger.WithError(err).WithField("category", category).Warn("Category read failed, serving empty")
		}
	}

	ratesByCurrency := make(map[string]models.CurrencyRateRow, len(rateRows))
	for _, r := range rateRows {
		ratesByCurrency[r.Currency] = r
	}

	exchangeRate := 1.0
	if localCurrency != "USD" {
		exchangeRate = USDToLocal(ratesByCurrency[localCurrency].RateToUSD)
	}

	resp := &models.MarketDataResponse{
		Indices:          b.buildIndices(country, indexRows, popularRows, regionRows, configs, now),
		Commodities:      b.buildCommodities(commodRows, exchangeRate),
		Currencies:       b.buildCurrencies(localCurrency, ratesByCurrency),
		CryptoCurrencies: b.buildCryptos(cryptoRows, exchangeRate),
		UserContext: &models.UserContext{
			Country:        country,
			Region:         RegionForCountry(country),
			Currency:       localCurrency,
			CurrencySymbol: SymbolForCurrency(localCurrency),
			ExchangeRate:   exchangeRate,
		},
		LastUpdated: now,
		Region:      country,
		CacheExpiry: now.Add(TTLFor(now)),
	}

	return resp, nil
}

// fetchIndices reads local, global-popular and regional index rows plus
// the config rows needed for timezone lookups.
func (b *Builder) fetchIndices(ctx context.Context, country string) (local, popular, regional []models.IndexRow, configs []models.IndexConfig, err error) {
	local, err = b.store.IndicesByCountry(ctx, country)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("local indices: %w", err)
	}

	seen := make(map[string]bool, len(local))
	for _, row := range local {
		seen[row.Symbol] = true
	}

	popularWanted := missingSymbols(GlobalPopularIndices(), seen)
	if len(popularWanted) > 0 {
		popular, err = b.store.IndicesBySymbols(ctx, popularWanted)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("popular indices: %w", err)
		}
		for _, row := range popular {
			seen[row.Symbol] = true
		}
	}

	regionalWanted := missingSymbols(RegionalIndicesFor(country), seen)
	if len(regionalWanted) > 0 {
		regional, err = b.store.IndicesBySymbols(ctx, regionalWanted)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("regional indices: %w", err)
		}
	}

	configs, err = b.store.IndexConfigs(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("index configs: %w", err)
	}

	return local, popular, regional, configs, nil
}

func missingSymbols(wanted []string, seen map[string]bool) []string {
	var out []string
	for _, s := range wanted {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

func (b *Builder) buildIndices(country string, local, popular, regional []models.IndexRow, configs []models.IndexConfig, now time.Time) []models.MarketIndex {
	timezones := make(map[string]string, len(configs))
	for _, c := range configs {
		timezones[c.Symbol] = c.Timezone
	}

	out := make([]models.MarketIndex, 0, len(local)+len(popular)+len(regional))
	appendRows := func(rows []models.IndexRow, priority int) {
		for _, row := range rows {
			out = append(out, models.MarketIndex{
				Symbol:          row.Symbol,
				Name:            row.Name,
				Value:           row.Value,
				PreviousClose:   row.PreviousClose,
				Change:          row.Change,
				ChangePercent:   row.ChangePercent,
				Currency:        row.Currency,
				Country:         row.Country,
				LastUpdated:     row.LastUpdated,
				IsOpen:          IsMarketOpen(timezones[row.Symbol], now),
				Priority:        priority,
				IsLocal:         priority == priorityLocal,
				IsGlobalPopular: priority == priorityGlobalPopular,
			})
		}
	}

	appendRows(local, priorityLocal)
	appendRows(popular, priorityGlobalPopular)
	appendRows(regional, priorityRegional)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})

	return out
}

func (b *Builder) buildCryptos(rows []models.CryptoRow, exchangeRate float64) []models.CryptoCurrency {
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
			Priority:         CryptoPriorityFor(row.Symbol),
			LastUpdated:      row.LastUpdated,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})

	return out
}

// buildCurrencies rebases the display pairs so the base is always the
// requester's local currency rather than USD.
func (b *Builder) buildCurrencies(localCurrency string, rates map[string]models.CurrencyRateRow) []models.Currency {
	local, haveLocal := rates[localCurrency]
	if localCurrency == "USD" {
		// USD rows may be absent since every rate is already USD-relative.
		local = models.CurrencyRateRow{Currency: "USD", RateToUSD: 1}
		haveLocal = true
	}

	out := make([]models.Currency, 0, len(currencyDisplaySet))
	if !haveLocal {
		return out
	}

	for _, quote := range CurrencyDisplaySet() {
		if quote == localCurrency {
			continue
		}

		quoteRow, ok := rates[quote]
		if quote == "USD" {
			quoteRow = models.CurrencyRateRow{Currency: "USD", RateToUSD: 1}
			ok = true
		}
		if !ok {
			continue
		}

		rate := CrossRate(local.RateToUSD, quoteRow.RateToUSD)
		if rate == 0 {
			continue
		}

		out = append(out, models.Currency{
			Pair:          localCurrency + "/" + quote,
			BaseCurrency:  localCurrency,
			QuoteCurrency: quote,
			Rate:          rate,
			RateToUSD:     quoteRow.RateToUSD,
			Change:        quoteRow.Change,
			LastUpdated:   quoteRow.LastUpdated,
		})
	}

	return out
}

func (b *Builder) buildCommodities(rows []models.CommodityRow, exchangeRate float64) []models.Commodity {
	out := make([]models.Commodity, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Commodity{
			Symbol:        row.Symbol,
			Name:          row.Name,
			Value:         row.ValueUSD,
			ValueLocal:    row.ValueUSD * exchangeRate,
			Unit:          row.Unit,
			Category:      row.Category,
			Change:        row.Change,
			ChangePercent: row.ChangePercent,
			LastUpdated:   row.LastUpdated,
		})
	}
	return out
}
