package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

type stubHealthStore struct {
	stats models.CategoryStats
	runs  []models.ScraperRun
}

func (s *stubHealthStore) IndexStats(ctx context.Context) (models.CategoryStats, error) {
	return s.stats, nil
}
func (s *stubHealthStore) CryptoStats(ctx context.Context) (models.CategoryStats, error) {
	return s.stats, nil
}
func (s *stubHealthStore) CurrencyStats(ctx context.Context) (models.CategoryStats, error) {
	return s.stats, nil
}
func (s *stubHealthStore) CommodityStats(ctx context.Context) (models.CategoryStats, error) {
	return s.stats, nil
}
func (s *stubHealthStore) RecentScraperRuns(ctx context.Context, limit int) ([]models.ScraperRun, error) {
	return s.runs, nil
}

func TestHealthEndpoint(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	now := time.Now()
	store := &stubHealthStore{
		stats: models.CategoryStats{Count: 10, ConfigCount: 10, NewestUpdate: &now, OldestUpdate: &now},
		runs:  []models.ScraperRun{{ID: 1, ScraperName: "indices", Status: "success", StartedAt: now}},
	}

	h := NewHealthHandler(market.NewChecker(store, log), log)
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/market").Subrouter())

	req := httptest.NewRequest(http.MethodGet, "/api/market/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report models.HealthReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !report.Success {
		t.Error("success should be true")
	}
	if report.Overall.Status != models.StatusHealthy {
		t.Errorf("overall = %s, want healthy", report.Overall.Status)
	}
	if report.Data.MarketIndices.Count != 10 {
		t.Errorf("marketIndices.count = %d, want 10", report.Data.MarketIndices.Count)
	}
	if len(report.ScraperRuns) != 1 {
		t.Errorf("scraperRuns = %d, want 1", len(report.ScraperRuns))
	}
	if report.Endpoints["health"] == "" {
		t.Error("endpoints map should list the health route")
	}
}
