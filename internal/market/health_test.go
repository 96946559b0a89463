package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

type fakeHealthStore struct {
	index, crypto, currency, commodity models.CategoryStats
	runs                               []models.ScraperRun
	err                                error
}

func (f *fakeHealthStore) IndexStats(ctx context.Context) (models.CategoryStats, error) {
	return f.index, f.err
}
func (f *fakeHealthStore) CryptoStats(ctx context.Context) (models.CategoryStats, error) {
	return f.crypto, f.err
}
func (f *fakeHealthStore) CurrencyStats(ctx context.Context) (models.CategoryStats, error) {
	return f.currency, f.err
}
func (f *fakeHealthStore) CommodityStats(ctx context.Context) (models.CategoryStats, error) {
	return f.commodity, f.err
}
func (f *fakeHealthStore) RecentScraperRuns(ctx context.Context, limit int) ([]models.ScraperRun, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], f.err
	}
	return f.runs, f.err
}

func freshStats(count int) models.CategoryStats {
	now := time.Now()
	return models.CategoryStats{Count: count, ConfigCount: count, NewestUpdate: &now, OldestUpdate: &now}
}

func newHealthyStore() *fakeHealthStore {
	return &fakeHealthStore{
		index:     freshStats(12),
		crypto:    freshStats(10),
		currency:  freshStats(8),
		commodity: freshStats(6),
	}
}

func TestReportAllHealthy(t *testing.T) {
	c := NewChecker(newHealthyStore(), logrus.New())

	report, err := c.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !report.Success {
		t.Error("success should be true")
	}
	if report.Overall.Status != models.StatusHealthy {
		t.Errorf("overall = %s, want healthy", report.Overall.Status)
	}
	if report.Overall.Message != "All systems operational" {
		t.Errorf("overall message = %q", report.Overall.Message)
	}
	if report.ScraperRuns == nil {
		t.Error("scraperRuns must not be nil")
	}
}

func TestClassifyIndices(t *testing.T) {
	now := time.Now()

	t.Run("no data is critical", func(t *testing.T) {
		got := classifyIndices(models.CategoryStats{}, now)
		if got.Health.Status != models.StatusCritical {
			t.Errorf("status = %s, want critical", got.Health.Status)
		}
	})

	t.Run("under half configured coverage is degraded", func(t *testing.T) {
		fresh := now
		got := classifyIndices(models.CategoryStats{Count: 3, ConfigCount: 10, NewestUpdate: &fresh}, now)
		if got.Health.Status != models.StatusDegraded {
			t.Errorf("status = %s, want degraded", got.Health.Status)
		}
		if got.Health.Message != "Only 3/10 indices have data" {
			t.Errorf("message = %q", got.Health.Message)
		}
	})

	t.Run("old data is degraded", func(t *testing.T) {
		old := now.Add(-90 * time.Minute)
		got := classifyIndices(models.CategoryStats{Count: 10, ConfigCount: 10, NewestUpdate: &old}, now)
		if got.Health.Status != models.StatusDegraded {
			t.Errorf("status = %s, want degraded", got.Health.Status)
		}
		if got.AvgAgeMinutes != 90 {
			t.Errorf("avgAgeMinutes = %d, want 90", got.AvgAgeMinutes)
		}
	})

	t.Run("stale rows are degraded", func(t *testing.T) {
		fresh := now
		got := classifyIndices(models.CategoryStats{Count: 10, ConfigCount: 10, StaleCount: 2, NewestUpdate: &fresh}, now)
		if got.Health.Status != models.StatusDegraded {
			t.Errorf("status = %s, want degraded", got.Health.Status)
		}
	})
}

func TestClassifyCryptoTighterThreshold(t *testing.T) {
	now := time.Now()

	// 30 minutes is fine for indices but already degraded for crypto.
	old := now.Add(-30 * time.Minute)

	idx := classifyIndices(models.CategoryStats{Count: 10, ConfigCount: 10, NewestUpdate: &old}, now)
	if idx.Health.Status != models.StatusHealthy {
		t.Errorf("indices at 30m = %s, want healthy", idx.Health.Status)
	}

	cr := classifyCrypto(models.CategoryStats{Count: 10, ConfigCount: 10, NewestUpdate: &old}, now)
	if cr.Health.Status != models.StatusDegraded {
		t.Errorf("crypto at 30m = %s, want degraded", cr.Health.Status)
	}
}

func TestOverallStatus(t *testing.T) {
	healthy := models.HealthStatus{Status: models.StatusHealthy}
	degraded := models.HealthStatus{Status: models.StatusDegraded}
	critical := models.HealthStatus{Status: models.StatusCritical}

	mk := func(a, b, c, d models.HealthStatus) models.HealthData {
		return models.HealthData{
			MarketIndices:    models.DataHealth{Health: a},
			CryptoCurrencies: models.DataHealth{Health: b},
			Currencies:       models.DataHealth{Health: c},
			Commodities:      models.DataHealth{Health: d},
		}
	}

	cases := []struct {
		name        string
		data        models.HealthData
		wantStatus  string
		wantMessage string
	}{
		{"all healthy", mk(healthy, healthy, healthy, healthy), models.StatusHealthy, "All systems operational"},
		{"one degraded", mk(degraded, healthy, healthy, healthy), models.StatusDegraded, "Minor issues detected"},
		{"two degraded", mk(degraded, degraded, healthy, healthy), models.StatusDegraded, "Some data sources need attention"},
		{"one critical", mk(critical, healthy, healthy, healthy), models.StatusDegraded, "Some data sources need attention"},
		{"two critical", mk(critical, critical, healthy, healthy), models.StatusCritical, "Multiple data sources are unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OverallStatus(tc.data)
			if got.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tc.wantStatus)
			}
			if got.Message != tc.wantMessage {
				t.Errorf("message = %q, want %q", got.Message, tc.wantMessage)
			}
		})
	}
}

func TestReportStoreFailure(t *testing.T) {
	store := newHealthyStore()
	store.err = errors.New("connection refused")
	c := NewChecker(store, logrus.New())

	if _, err := c.Report(context.Background()); err == nil {
		t.Fatal("expected error when a stats read fails")
	}
}

func TestReportScraperRunLimit(t *testing.T) {
	store := newHealthyStore()
	for i := 0; i < 15; i++ {
		store.runs = append(store.runs, models.ScraperRun{ID: i + 1, Status: "success"})
	}
	c := NewChecker(store, logrus.New())

	report, err := c.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(report.ScraperRuns) != 10 {
		t.Errorf("scraperRuns = %d entries, want 10", len(report.ScraperRuns))
	}
}
