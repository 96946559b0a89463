package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	apiHandlers "github.com/lahaseshrikant/NewsTRNT-sub007/internal/api/handlers"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/cache"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/database"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/messaging"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
)

// Server represents the HTTP API server
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server

	// Dependencies
	mysqlDB    *database.MySQLClient
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient

	// API handlers
	marketHandler *apiHandlers.MarketHandler
	healthHandler *apiHandlers.HealthHandler
	configHandler *apiHandlers.ConfigHandler
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger *logrus.Logger,
	mysqlDB *database.MySQLClient,
	redisCache *cache.RedisClient,
	natsClient *messaging.NATSClient,
	builder *market.Builder,
	checker *market.Checker,
) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		mysqlDB:    mysqlDB,
		redisCache: redisCache,
		natsClient: natsClient,
	}

	s.marketHandler = apiHandlers.NewMarketHandler(builder, mysqlDB, mysqlDB, redisCache, &cfg.Market, logger)
	s.healthHandler = apiHandlers.NewHealthHandler(checker, logger)
	s.configHandler = apiHandlers.NewConfigHandler(mysqlDB, logger)

	s.setupRoutes()

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Middleware order matters: requestID first so logging sees it
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)

	if s.cfg.Security.CORSEnabled {
		s.router.Use(s.corsMiddleware)
	}

	marketRouter := s.router.PathPrefix("/api/market").Subrouter()
	s.marketHandler.RegisterRoutes(marketRouter)
	s.healthHandler.RegisterRoutes(marketRouter)
	s.configHandler.RegisterRoutes(marketRouter)

	// Liveness probe, separate from the data-freshness health report
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.cfg.GetServerAddr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.WithField("address", addr).Info("Starting HTTP server")

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		if strings.Contains(err.Error(), "address already in use") {
			return fmt.Errorf("port %d is already in use", s.cfg.Server.Port)
		}
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, used by tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// Middleware functions

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapped.statusCode,
			"duration":   time.Since(start),
			"remote":     r.RemoteAddr,
			"request_id": wrapped.Header().Get("X-Request-ID"),
		}).Info("HTTP request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithFields(logrus.Fields{
					"error": err,
					"path":  r.URL.Path,
				}).Error("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.cfg.Security.CORSOrigins),
		handlers.AllowedMethods(s.cfg.Security.CORSMethods),
		handlers.AllowedHeaders(s.cfg.Security.CORSHeaders),
		handlers.AllowCredentials(),
	)(next)
}

// handleStatus reports connectivity of each backing service
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services := map[string]bool{
		"mysql": s.mysqlDB != nil && s.mysqlDB.Health(ctx) == nil,
		"redis": s.redisCache != nil && s.redisCache.Health(ctx) == nil,
		"nats":  s.natsClient != nil && s.natsClient.IsConnected(),
	}

	status := "healthy"
	for _, ok := range services {
		if !ok {
			status = "degraded"
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().Unix(),
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
