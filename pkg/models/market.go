package models

import (
	"time"
)

// MarketIndex represents a stock market index as served to readers.
// Priority drives display ordering: 1 = local to the requesting country,
// 2 = global popular, 3 = regional.
type MarketIndex struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Value           float64   `json:"value"`
	PreviousClose   float64   `json:"previousClose,omitempty"`
	Change          float64   `json:"change"`
	ChangePercent   float64   `json:"changePercent"`
	Currency        string    `json:"currency"`
	Country         string    `json:"country"`
	LastUpdated     time.Time `json:"lastUpdated"`
	IsOpen          bool      `json:"isOpen"`
	Priority        int       `json:"priority"`
	IsLocal         bool      `json:"isLocal"`
	IsGlobalPopular bool      `json:"isGlobalPopular"`
}

// CryptoCurrency represents a cryptocurrency quote. Value is USD;
// ValueLocal is converted into the requester's local currency.
type CryptoCurrency struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Value            float64   `json:"value"`
	ValueLocal       float64   `json:"valueLocal"`
	MarketCap        float64   `json:"marketCap,omitempty"`
	Rank             int       `json:"rank,omitempty"`
	Change24h        float64   `json:"change24h"`
	ChangePercent24h float64   `json:"changePercent24h"`
	Priority         int       `json:"priority"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Currency represents a conversion pair. BaseCurrency is always the
// requester's local currency, not necessarily USD.
type Currency struct {
	Pair          string    `json:"pair"`
	BaseCurrency  string    `json:"baseCurrency"`
	QuoteCurrency string    `json:"quoteCurrency"`
	Rate          float64   `json:"rate"`
	RateToUSD     float64   `json:"rateToUSD"`
	Change        float64   `json:"change,omitempty"`
	ChangePercent float64   `json:"changePercent,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Commodity represents a commodity quote. Value is USD; ValueLocal is
// converted into the requester's local currency.
type Commodity struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Value         float64   `json:"value"`
	ValueLocal    float64   `json:"valueLocal"`
	Unit          string    `json:"unit"`
	Category      string    `json:"category"`
	Change        float64   `json:"change,omitempty"`
	ChangePercent float64   `json:"changePercent,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// UserContext describes the requester's locale as resolved by the
// country endpoint.
type UserContext struct {
	Country        string  `json:"country"`
	Region         string  `json:"region"`
	Currency       string  `json:"currency"`
	CurrencySymbol string  `json:"currencySymbol"`
	ExchangeRate   float64 `json:"exchangeRate"`
}

// MarketDataResponse is the aggregate served by the country endpoint and
// cached by clients. All four collections are always present, possibly
// empty, never nil.
type MarketDataResponse struct {
	Indices          []MarketIndex    `json:"indices"`
	Commodities      []Commodity      `json:"commodities"`
	Currencies       []Currency       `json:"currencies"`
	CryptoCurrencies []CryptoCurrency `json:"cryptocurrencies"`
	UserContext      *UserContext     `json:"userContext,omitempty"`
	LastUpdated      time.Time        `json:"lastUpdated"`
	Region           string           `json:"region"`
	CacheExpiry      time.Time        `json:"cacheExpiry"`
}

// EmptyMarketDataResponse returns a well-formed response with all four
// collections empty. Callers rely on never seeing nil collections.
func EmptyMarketDataResponse(region string, cacheExpiry time.Time) MarketDataResponse {
	return MarketDataResponse{
		Indices:          []MarketIndex{},
		Commodities:      []Commodity{},
		Currencies:       []Currency{},
		CryptoCurrencies: []CryptoCurrency{},
		LastUpdated:      time.Now(),
		Region:           region,
		CacheExpiry:      cacheExpiry,
	}
}

// IndexRow is a market index row from the scraper-fed read cache.
type IndexRow struct {
	ID            int       `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Value         float64   `json:"value"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Currency      string    `json:"currency"`
	Country       string    `json:"country"`
	IsStale       bool      `json:"isStale"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// CryptoRow is a cryptocurrency row from the read cache. ValueUSD is the
// scraped USD price.
type CryptoRow struct {
	ID               int       `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	ValueUSD         float64   `json:"value"`
	MarketCap        float64   `json:"marketCap"`
	Rank             int       `json:"rank"`
	Change24h        float64   `json:"change24h"`
	ChangePercent24h float64   `json:"changePercent24h"`
	IsStale          bool      `json:"isStale"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// CurrencyRateRow is a currency rate row. RateToUSD is the value of one
// unit of Currency expressed in USD.
type CurrencyRateRow struct {
	ID          int       `json:"id"`
	Currency    string    `json:"currency"`
	RateToUSD   float64   `json:"rateToUSD"`
	Change      float64   `json:"change"`
	IsStale     bool      `json:"isStale"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// CommodityRow is a commodity row from the read cache, priced in USD.
type CommodityRow struct {
	ID            int       `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	ValueUSD      float64   `json:"value"`
	Unit          string    `json:"unit"`
	Category      string    `json:"category"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	IsStale       bool      `json:"isStale"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// ScraperRun records one run of the external scraper that feeds the
// read cache. Surfaced by the health endpoint for operational visibility.
type ScraperRun struct {
	ID            int        `json:"id"`
	ScraperName   string     `json:"scraperName"`
	DataType      string     `json:"dataType"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	ItemsFound    int        `json:"itemsFound"`
	ItemsInserted int        `json:"itemsInserted"`
	ItemsFailed   int        `json:"itemsFailed"`
	ErrorMessage  *string    `json:"errorMessage"`
}
