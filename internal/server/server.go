// Package server exposes the recognizer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/harmonic"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/RyanBlaney/acorde-sonar/logging"
	"github.com/RyanBlaney/acorde-sonar/recognition"
)

// RequestIDHeader carries the per-request identifier
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds the size of a classify request body
const maxBodyBytes = 64 << 20

// Config holds HTTP server settings
type Config struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfig returns the server defaults
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"*"},
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// ClassifyRequest is the body of POST /api/v1/classify. Window and
// TransformSize override the server configuration when set.
type ClassifyRequest struct {
	Samples       []float64 `json:"samples"`
	SampleRate    int       `json:"sample_rate"`
	Window        string    `json:"window,omitempty"`
	TransformSize int       `json:"transform_size,omitempty"`
}

// ClassifyResponse is returned for a successful classification
type ClassifyResponse struct {
	RequestID  string                  `json:"request_id"`
	Label      string                  `json:"label"`
	Key        string                  `json:"key,omitempty"`
	Score      int                     `json:"score"`
	Identified bool                    `json:"identified"`
	Peaks      []harmonic.SpectralPeak `json:"peaks"`
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// Server routes HTTP requests to a recognizer
type Server struct {
	config     Config
	recognizer *recognition.Recognizer
	router     *mux.Router
	logger     logging.Logger
}

// New creates a server around recognizer
func New(cfg Config, recognizer *recognition.Recognizer) *Server {
	s := &Server{
		config:     cfg,
		recognizer: recognizer,
		router:     mux.NewRouter().StrictSlash(true),
		logger: logging.WithFields(logging.Fields{
			"component": "http_server",
		}),
	}

	s.router.Use(s.requestID)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/classify", s.handleClassify).Methods(http.MethodPost)

	return s
}

// Handler returns the routed handler wrapped with CORS
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.Fields{"addr": s.config.Addr})
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

type requestIDKey struct{}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		ctx = logging.ContextWithFields(ctx, logging.Fields{"request_id": id, "path": r.URL.Path})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.recognizer.Catalog().Signatures())
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.WithContext(r.Context())

	var req ClassifyRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return
	}

	recognizer, err := s.recognizerFor(req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := recognizer.Analyze(req.Samples, req.SampleRate)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err.Error())
		return
	}

	logger.Info("Classified buffer", logging.Fields{
		"samples": len(req.Samples),
		"label":   analysis.Match.Label,
		"score":   analysis.Match.Score,
	})

	writeJSON(w, http.StatusOK, ClassifyResponse{
		RequestID:  requestIDFrom(r),
		Label:      analysis.Match.Label,
		Key:        analysis.Match.Key,
		Score:      analysis.Match.Score,
		Identified: analysis.Match.Identified,
		Peaks:      analysis.Peaks,
	})
}

// recognizerFor returns the shared recognizer, or a derived one when the
// request overrides window or transform size
func (s *Server) recognizerFor(req ClassifyRequest) (*recognition.Recognizer, error) {
	if req.Window == "" && req.TransformSize == 0 {
		return s.recognizer, nil
	}

	cfg := *s.recognizer.Config()
	if req.Window != "" {
		window, err := windowing.ParseType(req.Window)
		if err != nil {
			return nil, err
		}
		cfg.Window = window
	}
	if req.TransformSize != 0 {
		cfg.TransformSize = req.TransformSize
	}
	return recognition.NewRecognizer(&cfg, s.recognizer.Catalog())
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logger.WithContext(r.Context()).Warn("Request failed", logging.Fields{
		"status": status,
		"error":  msg,
	})
	writeJSON(w, status, ErrorResponse{RequestID: requestIDFrom(r), Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
