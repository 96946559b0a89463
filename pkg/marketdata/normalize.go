package marketdata

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Normalize reshapes any backend payload into a complete
// MarketDataResponse. It is total: malformed or partial input degrades
// field by field to empty values, it never fails.
//
// Accepted shapes:
//   - the flat response served by the country endpoint
//   - a `{success, data: {...}}` wrapper around it
//   - payloads naming the crypto list `cryptos` instead of
//     `cryptocurrencies`
func Normalize(raw []byte, fallbackRegion string, cacheExpiry time.Time) models.MarketDataResponse {
	resp := models.EmptyMarketDataResponse(fallbackRegion, cacheExpiry)

	payload := unwrap(raw)
	if payload == nil {
		return resp
	}

	decodeField(payload, &resp.Indices, "indices")
	decodeField(payload, &resp.Commodities, "commodities")
	decodeField(payload, &resp.Currencies, "currencies")
	decodeField(payload, &resp.CryptoCurrencies, "cryptocurrencies", "cryptos")

	if region := stringField(payload, "country", "region"); region != "" {
		resp.Region = region
	}
	if t := timeField(payload, "lastUpdated"); !t.IsZero() {
		resp.LastUpdated = t
	}
	if t := timeField(payload, "cacheExpiry"); !t.IsZero() {
		resp.CacheExpiry = t
	}

	var userCtx models.UserContext
	if rawCtx, ok := payload["userContext"]; ok {
		if err := json.Unmarshal(rawCtx, &userCtx); err == nil && userCtx.Country != "" {
			resp.UserContext = &userCtx
		}
	}

	return resp
}

// unwrap parses the payload and strips a {success, data} envelope when
// present. Returns nil when the payload is not a JSON object.
func unwrap(raw []byte) map[string]json.RawMessage {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	var success bool
	if rawSuccess, ok := payload["success"]; ok {
		json.Unmarshal(rawSuccess, &success)
	}
	if rawData, ok := payload["data"]; success && ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(rawData, &inner); err == nil {
			// Keep envelope-level locale fields reachable from the
			// unwrapped map.
			for _, k := range []string{"country", "region", "userContext"} {
				if _, exists := inner[k]; !exists {
					if v, has := payload[k]; has {
						inner[k] = v
					}
				}
			}
			return inner
		}
	}

	return payload
}

// decodeField decodes the first present key into dest, leaving dest
// untouched when every candidate is absent, null or malformed. The
// null check matters for the collection fields: unmarshalling null
// would nil out the empty-slice default.
func decodeField(payload map[string]json.RawMessage, dest interface{}, keys ...string) {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, dest); err == nil {
			return
		}
	}
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func stringField(payload map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func timeField(payload map[string]json.RawMessage, key string) time.Time {
	raw, ok := payload[key]
	if !ok {
		return time.Time{}
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return time.Time{}
	}
	return t
}

// List normalizers for the secondary endpoints. Each tolerates both the
// wrapped and flat response shapes and degrades to empty.

func normalizeIndices(raw []byte) []models.MarketIndex {
	out := []models.MarketIndex{}
	if payload := unwrap(raw); payload != nil {
		decodeField(payload, &out, "indices")
	}
	return out
}

func normalizeCommodities(raw []byte) []models.Commodity {
	out := []models.Commodity{}
	if payload := unwrap(raw); payload != nil {
		decodeField(payload, &out, "commodities")
	}
	return out
}

func normalizeCurrencies(raw []byte) []models.Currency {
	out := []models.Currency{}
	if payload := unwrap(raw); payload != nil {
		decodeField(payload, &out, "currencies")
	}
	return out
}

func normalizeCryptos(raw []byte) []models.CryptoCurrency {
	out := []models.CryptoCurrency{}
	if payload := unwrap(raw); payload != nil {
		decodeField(payload, &out, "cryptocurrencies", "cryptos")
	}
	return out
}
