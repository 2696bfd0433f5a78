package fakebridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs a Bridge on a random loopback port for --demo
type Server struct {
	logger   *zap.Logger
	bridge   *Bridge
	listener net.Listener
	srv      *http.Server
}

// NewServer reserves a loopback port so the URL is known before Start
func NewServer(logger *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for demo bridge: %w", err)
	}

	b := New(logger)
	return &Server{
		logger:   logger,
		bridge:   b,
		listener: ln,
		srv: &http.Server{
			Handler:           b,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// URL returns the base URL clients should use
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Bridge exposes the in-memory state behind the server
func (s *Server) Bridge() *Bridge {
	return s.bridge
}

// Start serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Demo bridge listening", zap.String("url", s.URL()))

	go func() {
		if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Demo bridge stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop demo bridge: %w", err)
	}
	return nil
}
