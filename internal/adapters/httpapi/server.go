// Package httpapi exposes the scan pipeline over HTTP for the browser
// extension. It is thin plumbing: decode, scan, encode.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

// scanRequest is the wire format the extension submits.
type scanRequest struct {
	Subject     string   `json:"subject"`
	Sender      string   `json:"sender"`
	SenderEmail string   `json:"senderEmail"`
	Text        string   `json:"text"`
	HTML        string   `json:"html"`
	Links       []string `json:"links"`
}

// Server serves the scan API.
type Server struct {
	service        *core.ScanService
	logger         *zap.Logger
	listenAddr     string
	allowedOrigins []string
	requestTimeout time.Duration
	httpServer     *http.Server
}

// NewServer creates a new API server.
func NewServer(
	service *core.ScanService,
	logger *zap.Logger,
	listenAddr string,
	allowedOrigins []string,
	requestTimeout time.Duration,
) *Server {
	return &Server{
		service:        service,
		logger:         logger,
		listenAddr:     listenAddr,
		allowedOrigins: allowedOrigins,
		requestTimeout: requestTimeout,
	}
}

// Routes returns the chi router for the scan API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/scan", s.handleScan)

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Scan API starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "note": "POST JSON to /scan"})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	submission := &core.EmailSubmission{
		Subject:     req.Subject,
		Sender:      req.Sender,
		SenderEmail: req.SenderEmail,
		Text:        req.Text,
		HTML:        req.HTML,
		Links:       req.Links,
	}

	// Scan never fails; every degraded branch still yields a verdict.
	verdict := s.service.Scan(ctx, submission)
	writeJSON(w, http.StatusOK, verdict)
}

// corsMiddleware applies the configured origin allow-list. An empty
// list rejects cross-origin callers rather than allowing all of them.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
