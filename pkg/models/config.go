package models

// IndexConfig is an admin-managed market index definition. It tells the
// scraper what to fetch and the country endpoint how to classify it.
type IndexConfig struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	Currency  string `json:"currency"`
	Exchange  string `json:"exchange"`
	Timezone  string `json:"timezone"`
	IsActive  bool   `json:"isActive"`
	IsGlobal  bool   `json:"isGlobal"`
	SortOrder int    `json:"sortOrder"`
}

// CryptoConfig is an admin-managed cryptocurrency definition.
type CryptoConfig struct {
	ID          int    `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	CoinGeckoID string `json:"coinGeckoId"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

// CommodityConfig is an admin-managed commodity definition.
type CommodityConfig struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	Currency  string `json:"currency"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}

// CurrencyPairConfig is an admin-managed currency pair definition.
type CurrencyPairConfig struct {
	ID        int    `json:"id"`
	Pair      string `json:"pair"`
	Name      string `json:"name"`
	Base      string `json:"base"`
	Quote     string `json:"quote"`
	Type      string `json:"type"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}
