// Package server exposes the mock API over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mumumio1/mockapi/internal/config"
	"github.com/mumumio1/mockapi/internal/dataset"
	"github.com/mumumio1/mockapi/internal/instance"
	"github.com/mumumio1/mockapi/internal/log"
	"github.com/mumumio1/mockapi/internal/metrics"
	"github.com/mumumio1/mockapi/internal/model"
)

// Server holds the read-only state shared by all handlers
type Server struct {
	data        *dataset.Dataset
	inst        *instance.Instance
	logger      log.Logger
	metrics     *metrics.Metrics
	cors        config.CORSConfig
	metricsPath string
}

// Options configures a Server. Metrics may be nil to disable
// instrumentation and the metrics endpoint.
type Options struct {
	Dataset     *dataset.Dataset
	Instance    *instance.Instance
	Logger      log.Logger
	Metrics     *metrics.Metrics
	CORS        config.CORSConfig
	MetricsPath string
}

// New creates a Server
func New(opts Options) *Server {
	s := &Server{
		data:        opts.Dataset,
		inst:        opts.Instance,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		cors:        opts.CORS,
		metricsPath: opts.MetricsPath,
	}
	if s.logger == nil {
		s.logger = log.NewNopLogger()
	}
	if len(s.cors.AllowedOrigins) == 0 {
		s.cors.AllowedOrigins = []string{"*"}
	}
	if s.metricsPath == "" {
		s.metricsPath = "/metrics"
	}
	return s
}

// Router returns the route table without middleware
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.Health).Methods(http.MethodGet)
	r.HandleFunc("/posts", s.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", s.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/users", s.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", s.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/performance", s.Performance).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle(s.metricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(s.routeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
	r.Use(captureRoute)

	return r
}

// Handler returns the router wrapped in the full middleware chain
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cors.AllowedOrigins,
		AllowedMethods: s.cors.AllowedMethods,
		AllowedHeaders: s.cors.AllowedHeaders,
		ExposedHeaders: []string{headerServerName, headerLanguage, headerRequestID},
	})

	var handler http.Handler = s.Router()
	handler = c.Handler(handler)
	handler = identityMiddleware(handler, s.inst.Name)
	handler = loggingMiddleware(handler, s.logger)
	handler = requestIDMiddleware(handler)

	if s.metrics != nil {
		handler = metricsMiddleware(handler, s.metrics)
	}

	return handler
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:      msg,
		ServerInfo: s.inst.Info(),
	})
}

func (s *Server) routeNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "Route not found")
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
