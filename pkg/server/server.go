package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elonfeng/techcast/pkg/forecast"
	"github.com/elonfeng/techcast/pkg/render"
)

// Refresher produces the current forecast view.
type Refresher interface {
	Refresh(ctx context.Context) (forecast.Result, error)
}

// Server provides the HTTP API.
type Server struct {
	engine      Refresher
	port        int
	corsOrigins []string
	logger      *slog.Logger
}

// New creates a new HTTP server.
func New(engine Refresher, port int, corsOrigins []string, logger *slog.Logger) *Server {
	if port == 0 {
		port = 8080
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:      engine,
		port:        port,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/forecast", s.handleForecast).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/cards", s.handleCards).Methods(http.MethodGet)
	r.HandleFunc("/chart.svg", s.handleChart("image/svg+xml", func(v *render.View) []byte { return v.SVG })).Methods(http.MethodGet)
	r.HandleFunc("/chart.png", s.handleChart("image/png", func(v *render.View) []byte { return v.PNG })).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	var h http.Handler = r
	if len(s.corsOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.corsOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		)(h)
	}
	return h
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           handlers.LoggingHandler(os.Stderr, s.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("techcast server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  view.Cards,
		"count": len(view.Cards),
	})
}

func (s *Server) handleChart(contentType string, pick func(*render.View) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.view(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", `"`+view.Fingerprint+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(pick(view))
	}
}

// view refreshes the forecast and writes the error response itself when
// there is nothing to show.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*render.View, bool) {
	res, err := s.engine.Refresh(r.Context())
	if forecast.IsNoData(err) {
		body := map[string]any{"error": "no data available"}
		if n := len(res.Dataset.Dropped); n > 0 {
			body["dropped"] = n
		}
		writeJSON(w, http.StatusServiceUnavailable, body)
		return nil, false
	}
	if err != nil {
		s.logger.Error("refresh forecast", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return res.View, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
