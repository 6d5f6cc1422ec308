package http

import (
	"context"
	"errors"
	stdnet "net"
	stdhttp "net/http"
	"sync"
	"time"

	"storyport/internal/platform/config"
	"storyport/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerOptions configures the listener and its lifecycle
type ServerOptions struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownGrace     time.Duration
}

// ServerOptionsFromConfig reads STORYPORT_HTTP_* keys
func ServerOptionsFromConfig(cfg config.Conf) ServerOptions {
	hc := cfg.Prefix("HTTP_")
	return ServerOptions{
		Addr:              hc.MayString("ADDR", ":4000"),
		ReadHeaderTimeout: hc.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGrace:     hc.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	opt ServerOptions
	mux *chi.Mux
	srv *stdhttp.Server

	mu    sync.Mutex
	bound string
}

// NewServer creates a server; opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(opt ServerOptions, opts ...func(*chi.Mux)) *Server {
	if opt.Addr == "" {
		opt.Addr = ":4000"
	}
	if opt.ReadHeaderTimeout <= 0 {
		opt.ReadHeaderTimeout = 10 * time.Second
	}
	if opt.ShutdownGrace <= 0 {
		opt.ShutdownGrace = 10 * time.Second
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		opt: opt,
		mux: m,
		srv: &stdhttp.Server{
			Addr:              opt.Addr,
			Handler:           m,
			ReadHeaderTimeout: opt.ReadHeaderTimeout,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the bound address once listening, else the configured one
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != "" {
		return s.bound
	}
	return s.opt.Addr
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := stdnet.Listen("tcp", s.opt.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down within the grace period
func (s *Server) Serve(ctx context.Context, ln stdnet.Listener) error {
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()

	log := logger.Named("http")
	log.Info().Str("addr", s.Addr()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), s.opt.ShutdownGrace)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
