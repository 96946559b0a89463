package marketdata

import (
	"testing"
	"time"
)

func TestNormalizeWrappedPayload(t *testing.T) {
	raw := []byte(`{
		"success": true,
		"data": {
			"cryptos": [{"symbol": "BTC", "name": "Bitcoin", "value": 62000}],
			"indices": [{"symbol": "^GSPC", "value": 5100}]
		},
		"country": "US"
	}`)

	resp := Normalize(raw, "FALLBACK", time.Now())

	if len(resp.CryptoCurrencies) != 1 || resp.CryptoCurrencies[0].Symbol != "BTC" {
		t.Errorf("cryptos alias not normalized: %+v", resp.CryptoCurrencies)
	}
	if len(resp.Indices) != 1 || resp.Indices[0].Symbol != "^GSPC" {
		t.Errorf("indices lost in unwrap: %+v", resp.Indices)
	}
	if resp.Region != "US" {
		t.Errorf("region = %s, want US from envelope", resp.Region)
	}
}

func TestNormalizeFlatPayload(t *testing.T) {
	raw := []byte(`{
		"indices": [{"symbol": "^FTSE", "value": 7600}],
		"cryptocurrencies": [{"symbol": "ETH", "value": 3000}],
		"region": "GB"
	}`)

	resp := Normalize(raw, "FALLBACK", time.Now())

	if len(resp.Indices) != 1 || resp.Indices[0].Symbol != "^FTSE" {
		t.Errorf("flat indices not preserved: %+v", resp.Indices)
	}
	if len(resp.CryptoCurrencies) != 1 || resp.CryptoCurrencies[0].Symbol != "ETH" {
		t.Errorf("cryptocurrencies not preserved: %+v", resp.CryptoCurrencies)
	}
	if resp.Region != "GB" {
		t.Errorf("region = %s, want GB", resp.Region)
	}
}

func TestNormalizeCryptocurrenciesWinsOverAlias(t *testing.T) {
	raw := []byte(`{
		"cryptocurrencies": [{"symbol": "ETH"}],
		"cryptos": [{"symbol": "BTC"}]
	}`)

	resp := Normalize(raw, "US", time.Now())
	if len(resp.CryptoCurrencies) != 1 || resp.CryptoCurrencies[0].Symbol != "ETH" {
		t.Errorf("canonical key should win over alias: %+v", resp.CryptoCurrencies)
	}
}

func TestNormalizeDefensiveDefaults(t *testing.T) {
	expiry := time.Now().Add(5 * time.Minute)

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `garbage`},
		{"json array", `[1,2,3]`},
		{"empty object", `{}`},
		{"wrong field types", `{"indices": "nope", "currencies": 7}`},
		{"null collections", `{"indices": null, "commodities": null, "currencies": null, "cryptocurrencies": null}`},
		{"null inside envelope", `{"success": true, "data": {"indices": null, "cryptos": null}}`},
		{"success without data", `{"success": true}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := Normalize([]byte(tc.raw), "IN", expiry)

			if resp.Indices == nil || resp.Commodities == nil || resp.Currencies == nil || resp.CryptoCurrencies == nil {
				t.Fatal("collections must never be nil")
			}
			if len(resp.Indices)+len(resp.Commodities)+len(resp.Currencies)+len(resp.CryptoCurrencies) != 0 {
				t.Error("malformed input should normalize to empty collections")
			}
			if resp.Region != "IN" {
				t.Errorf("region = %s, want fallback IN", resp.Region)
			}
			if !resp.CacheExpiry.Equal(expiry) {
				t.Errorf("cacheExpiry = %v, want %v", resp.CacheExpiry, expiry)
			}
		})
	}
}

func TestNormalizeListsNullPayloads(t *testing.T) {
	raw := []byte(`{"success": true, "indices": null, "commodities": null, "currencies": null, "cryptos": null}`)

	if got := normalizeIndices(raw); got == nil || len(got) != 0 {
		t.Errorf("normalizeIndices(null) = %v, want empty slice", got)
	}
	if got := normalizeCommodities(raw); got == nil || len(got) != 0 {
		t.Errorf("normalizeCommodities(null) = %v, want empty slice", got)
	}
	if got := normalizeCurrencies(raw); got == nil || len(got) != 0 {
		t.Errorf("normalizeCurrencies(null) = %v, want empty slice", got)
	}
	if got := normalizeCryptos(raw); got == nil || len(got) != 0 {
		t.Errorf("normalizeCryptos(null) = %v, want empty slice", got)
	}
}

func TestNormalizeUserContext(t *testing.T) {
	raw := []byte(`{
		"success": true,
		"data": {"indices": []},
		"userContext": {"country": "IN", "region": "ASIA", "currency": "INR", "currencySymbol": "₹", "exchangeRate": 83.3}
	}`)

	resp := Normalize(raw, "IN", time.Now())
	if resp.UserContext == nil {
		t.Fatal("userContext should survive the envelope unwrap")
	}
	if resp.UserContext.Currency != "INR" || resp.UserContext.ExchangeRate != 83.3 {
		t.Errorf("userContext = %+v", resp.UserContext)
	}
}
