package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// ConfigStore reads the instrument configuration tables that drive the
// scrapers.
type ConfigStore interface {
	IndexConfigs(ctx context.Context) ([]models.IndexConfig, error)
	CryptoConfigs(ctx context.Context) ([]models.CryptoConfig, error)
	CommodityConfigs(ctx context.Context) ([]models.CommodityConfig, error)
	CurrencyPairConfigs(ctx context.Context) ([]models.CurrencyPairConfig, error)
}

// ConfigHandler serves the instrument configuration endpoints
type ConfigHandler struct {
	store  ConfigStore
	logger *logrus.Entry
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(store ConfigStore, logger *logrus.Logger) *ConfigHandler {
	return &ConfigHandler{
		store:  store,
		logger: logger.WithField("component", "config-handler"),
	}
}

// RegisterRoutes registers config routes on the given router
func (h *ConfigHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/config/indices", h.handleIndices).Methods("GET")
	router.HandleFunc("/config/cryptos", h.handleCryptos).Methods("GET")
	router.HandleFunc("/config/commodities", h.handleCommodities).Methods("GET")
	router.HandleFunc("/config/currencies", h.handleCurrencies).Methods("GET")
}

func (h *ConfigHandler) handleIndices(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.IndexConfigs(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch index configs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	if configs == nil {
		configs = []models.IndexConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"configs": configs,
		"count":   len(configs),
	})
}

func (h *ConfigHandler) handleCryptos(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.CryptoConfigs(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch crypto configs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	if configs == nil {
		configs = []models.CryptoConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"configs": configs,
		"count":   len(configs),
	})
}

func (h *ConfigHandler) handleCommodities(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.CommodityConfigs(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch commodity configs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	if configs == nil {
		configs = []models.CommodityConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"configs": configs,
		"count":   len(configs),
	})
}

func (h *ConfigHandler) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.CurrencyPairConfigs(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch currency pair configs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}
	if configs == nil {
		configs = []models.CurrencyPairConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"configs": configs,
		"count":   len(configs),
	})
}
