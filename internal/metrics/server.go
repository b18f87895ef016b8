package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server exposes the registry over HTTP.
type Server struct {
	server   *http.Server
	port     int
	endpoint string
	log      logrus.FieldLogger
}

// NewServer creates a metrics server for m.
func NewServer(m *Metrics, port int, endpoint string, log logrus.FieldLogger) *Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return &Server{
		server:   &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
		port:     port,
		endpoint: endpoint,
		log:      log,
	}
}

// Run serves until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("metrics server listening on port %d%s", s.port, s.endpoint)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down metrics server...")
	return s.server.Shutdown(context.WithoutCancel(ctx))
}

// Handler returns the scrape handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.server.Handler }
