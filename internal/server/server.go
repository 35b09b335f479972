package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"StakeBanner/internal/model"
	"StakeBanner/internal/notifier"
)

// ReportSource provides the most recent report.
type ReportSource interface {
	Latest() (*model.Report, bool)
}

// Server is the HTTP API serving the weekly stats.
type Server struct {
	httpSrv *http.Server
	source  ReportSource
	display notifier.Display
	log     *logrus.Logger
	addr    string
	started time.Time
}

// New creates an HTTP server bound to bind:port.
func New(bind string, port int, source ReportSource, d notifier.Display, log *logrus.Logger) *Server {
	s := &Server{
		source:  source,
		display: d,
		log:     log,
		addr:    fmt.Sprintf("%s:%d", bind, port),
		started: time.Now(),
	}
	s.httpSrv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in CORS for browser dashboards.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.registerRoutes(r)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(r)
}

// Start begins serving HTTP requests in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.log.Infof("HTTP API listening on %s", ln.Addr())
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.log.Warnf("HTTP shutdown: %v", err)
	}
	s.log.Info("HTTP server stopped")
}
