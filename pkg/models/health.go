package models

import "time"

// Health status levels for a market data category.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusCritical = "critical"
)

// HealthStatus is a classified status with a human-readable message.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DataHealth summarizes the freshness of one market data category.
type DataHealth struct {
	Count         int          `json:"count"`
	ConfigCount   int          `json:"configCount"`
	StaleCount    int          `json:"staleCount"`
	OldestUpdate  *time.Time   `json:"oldestUpdate"`
	NewestUpdate  *time.Time   `json:"newestUpdate"`
	AvgAgeMinutes int          `json:"avgAgeMinutes"`
	Health        HealthStatus `json:"health"`
}

// HealthReport is the full payload of the health endpoint.
type HealthReport struct {
	Success     bool              `json:"success"`
	Timestamp   time.Time         `json:"timestamp"`
	Overall     HealthStatus      `json:"overall"`
	Data        HealthData        `json:"data"`
	ScraperRuns []ScraperRun      `json:"scraperRuns"`
	Endpoints   map[string]string `json:"endpoints"`
}

// HealthData groups per-category health summaries.
type HealthData struct {
	MarketIndices    DataHealth `json:"marketIndices"`
	CryptoCurrencies DataHealth `json:"cryptocurrencies"`
	Currencies       DataHealth `json:"currencies"`
	Commodities      DataHealth `json:"commodities"`
}

// CategoryStats are the raw per-category numbers read from the store,
// before classification.
type CategoryStats struct {
	Count        int
	ConfigCount  int
	StaleCount   int
	OldestUpdate *time.Time
	NewestUpdate *time.Time
}
