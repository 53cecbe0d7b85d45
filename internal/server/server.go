// Package server exposes plan comparisons over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgoulah/gridtariff/internal/billing"
	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/logger"
	"github.com/jgoulah/gridtariff/internal/metrics"
	"github.com/jgoulah/gridtariff/internal/tariff"
)

const maxBodyBytes = 1 << 20

// Server serves the comparison API.
type Server struct {
	store billing.Store
	cfg   *config.Config
	now   func() time.Time
}

// New creates a server reading usage from store and plans from cfg.
func New(store billing.Store, cfg *config.Config) *Server {
	metrics.Init()
	return &Server{store: store, cfg: cfg, now: time.Now}
}

// Handler returns the routed, logged HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/compare", http.HandlerFunc(s.handleCompare))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return loggingMiddleware(mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// CompareRequest is the body of POST /api/compare. Plans names configured
// plans; Definitions adds plans inline. With neither, every configured plan
// is compared.
type CompareRequest struct {
	Service     string              `json:"service"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Plans       []string            `json:"plans,omitempty"`
	Definitions []config.PlanConfig `json:"definitions,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req CompareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body: "+err.Error()))
		return
	}

	loc, err := s.cfg.Location()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	period, err := billing.ParsePeriod(req.From, req.To, s.now(), loc)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	plans, err := s.plans(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	service := req.Service
	if service == "" {
		service = s.cfg.GetService()
	}

	res, err := billing.Run(r.Context(), s.store, billing.Request{Service: service, Range: period, Plans: plans})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("compare failed", "service", service, "error", err)
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) plans(req CompareRequest) ([]tariff.Plan, error) {
	var plans []tariff.Plan
	if len(req.Plans) > 0 || len(req.Definitions) == 0 {
		selected, err := s.cfg.SelectPlans(req.Plans)
		if err != nil {
			return nil, err
		}
		plans = selected
	}
	if len(req.Definitions) > 0 {
		inline, err := config.BuildPlans(req.Definitions)
		if err != nil {
			return nil, err
		}
		plans = append(plans, inline...)
	}
	return plans, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, billing.ErrInvalidPeriod),
		errors.Is(err, config.ErrUnknownPlan),
		errors.Is(err, config.ErrInvalidPlanConfig):
		return http.StatusBadRequest
	case errors.Is(err, tariff.ErrInvalidPlan),
		errors.Is(err, tariff.ErrEmptySeries),
		errors.Is(err, tariff.ErrNoBills),
		errors.Is(err, tariff.ErrDuplicateBill):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		metrics.IncHTTPRequest(r.URL.Path, strconv.Itoa(resp.status))
		logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", resp.status, "duration", time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
