package market

// Static lookup tables for the country aggregation endpoint. These mirror
// the admin seed data: they change rarely and never per-request, so they
// live in code rather than the database.

// countryCurrency maps an ISO country code to its display currency.
var countryCurrency = map[string]string{
	"US": "USD", "CA": "CAD", "GB": "GBP", "DE": "EUR", "FR": "EUR",
	"IT": "EUR", "ES": "EUR", "NL": "EUR", "JP": "JPY", "CN": "CNY",
	"IN": "INR", "AU": "AUD", "BR": "BRL", "MX": "MXN", "RU": "RUB",
	"KR": "KRW", "CH": "CHF", "HK": "HKD", "SG": "SGD", "SA": "SAR",
	"AE": "AED", "ZA": "ZAR",
}

// currencySymbols maps a currency code to its display symbol.
var currencySymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CNY": "¥",
	"INR": "₹", "KRW": "₩", "RUB": "₽", "BRL": "R$", "CAD": "C$",
	"AUD": "A$", "MXN": "Mex$", "CHF": "Fr", "HKD": "HK$", "SGD": "S$",
	"SAR": "﷼", "AED": "د.إ", "ZAR": "R",
}

// countryRegion maps a country code to its geographic market region.
var countryRegion = map[string]string{
	"US": "AMERICAS", "CA": "AMERICAS", "BR": "AMERICAS", "MX": "AMERICAS",
	"GB": "EUROPE", "DE": "EUROPE", "FR": "EUROPE", "IT": "EUROPE",
	"ES": "EUROPE", "NL": "EUROPE", "CH": "EUROPE", "RU": "EUROPE",
	"JP": "ASIA", "CN": "ASIA", "IN": "ASIA", "KR": "ASIA",
	"HK": "ASIA", "SG": "ASIA", "AU": "ASIA",
	"SA": "MIDDLE_EAST", "AE": "MIDDLE_EAST",
	"ZA": "AFRICA",
}

// globalPopularIndices is the fixed major-index set shown to every
// country, in display order.
var globalPopularIndices = []string{"^GSPC", "^DJI", "^IXIC"}

// regionalIndices maps a region to the index symbols shown to countries
// in that region when the index is not already local or global popular.
var regionalIndices = map[string][]string{
	"AMERICAS":    {"^GSPTSE", "^BVSP", "^MXX"},
	"EUROPE":      {"^FTSE", "^GDAXI", "^FCHI", "^STOXX50E"},
	"ASIA":        {"^N225", "^HSI", "^NSEI", "^SSE"},
	"MIDDLE_EAST": {"^TASI", "^ADI"},
	"AFRICA":      {"^JN0U.JO"},
}

// cryptoPriority fixes the display order of cryptocurrencies; unlisted
// symbols sort last.
var cryptoPriority = map[string]int{
	"BTC":  1,
	"ETH":  2,
	"BNB":  3,
	"SOL":  4,
	"XRP":  5,
	"ADA":  6,
	"DOGE": 7,
	"DOT":  8,
}

const unlistedCryptoPriority = 99

// currencyDisplaySet is the quote-currency set the country endpoint
// rebases against the requester's local currency.
var currencyDisplaySet = []string{"USD", "EUR", "GBP", "JPY", "CNY", "INR", "AUD", "CAD"}

// CurrencyForCountry returns the local currency for a country code,
// defaulting to USD.
func CurrencyForCountry(country string) string {
	if c, ok := countryCurrency[country]; ok {
		return c
	}
	return "USD"
}

// SymbolForCurrency returns the display symbol for a currency code,
// defaulting to the code itself.
func SymbolForCurrency(currency string) string {
	if s, ok := currencySymbols[currency]; ok {
		return s
	}
	return currency
}

// RegionForCountry returns the market region for a country code,
// defaulting to GLOBAL.
func RegionForCountry(country string) string {
	if r, ok := countryRegion[country]; ok {
		return r
	}
	return "GLOBAL"
}

// GlobalPopularIndices returns the fixed major-index symbol set.
func GlobalPopularIndices() []string {
	return globalPopularIndices
}

// RegionalIndicesFor returns the regional index symbols for a country.
func RegionalIndicesFor(country string) []string {
	return regionalIndices[RegionForCountry(country)]
}

// CryptoPriorityFor returns the display priority for a crypto symbol;
// unlisted symbols get 99.
func CryptoPriorityFor(symbol string) int {
	if p, ok := cryptoPriority[symbol]; ok {
		return p
	}
	return unlistedCryptoPriority
}

// CurrencyDisplaySet returns the quote currencies the country endpoint
// builds pairs for.
func CurrencyDisplaySet() []string {
	return currencyDisplaySet
}
