package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
)

// HealthHandler serves the data-freshness health report
type HealthHandler struct {
	checker *market.Checker
	logger  *logrus.Entry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *market.Checker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger.WithField("component", "health-handler"),
	}
}

// RegisterRoutes registers the health route on the given router
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.checker.Report(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Health check failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch market data from cache")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes the standard error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
