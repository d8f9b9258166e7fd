// Package server hosts the HTTP surface: game creation and join, the QR
// join link, and the websocket upgrade endpoint. It owns the process-wide
// store, hub, and dispatch service, and sweeps idle games in the
// background.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/louisbranch/liarsdice/internal/auth"
	"github.com/louisbranch/liarsdice/internal/game/service"
	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
	"github.com/louisbranch/liarsdice/internal/storage/memory"
	"github.com/louisbranch/liarsdice/internal/transport/ws"
)

// Options configures the server beyond its listen address.
type Options struct {
	// Tokens signs and verifies player tokens.
	Tokens auth.Config
	// PublicURL is the externally reachable base URL used in join links.
	PublicURL string
	// ReapTTL is how long a game may sit idle before the sweep removes
	// it. Zero disables reaping.
	ReapTTL time.Duration
	// ReapInterval is how often the sweep runs.
	ReapInterval time.Duration
}

// Server hosts the HTTP and websocket surface over one dispatch service.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *memory.Store
	svc        *service.Service
	opts       Options
}

// New creates a configured server listening on the provided port.
func New(port int, opts Options) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), opts)
}

// NewWithAddr creates a configured server listening on the provided
// address.
func NewWithAddr(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store := memory.NewStore()
	hub := ws.NewHub()
	svc := service.New(store, hub, service.WithLogging())

	s := &Server{
		listener: listener,
		store:    store,
		svc:      svc,
		opts:     opts,
	}
	s.httpServer = &http.Server{
		Handler:           s.routes(hub),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return s, nil
}

// Run creates and serves a server until the context ends.
func Run(ctx context.Context, port int, opts Options) error {
	s, err := New(port, opts)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// RunWithAddr creates and serves a server on addr until the context ends.
func RunWithAddr(ctx context.Context, addr string, opts Options) error {
	s, err := NewWithAddr(addr, opts)
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve starts the server and blocks until it stops or the context ends.
// Shutdown drains in-flight requests, stops the idle sweep, and cancels
// every game timer.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.svc.Stop()

	log.Printf("server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	reapDone := make(chan struct{})
	go s.reapLoop(ctx, reapDone)

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		<-reapDone
		return handleErr(<-serveErr)
	case err := <-serveErr:
		<-reapDone
		return handleErr(err)
	}
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// reapLoop periodically removes games nobody has touched within the TTL.
func (s *Server) reapLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	if s.opts.ReapTTL <= 0 {
		return
	}
	interval := s.opts.ReapInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			codes, err := s.store.Codes(ctx)
			if err != nil {
				continue
			}
			if removed := s.svc.ReapIdle(ctx, codes, s.opts.ReapTTL); removed > 0 {
				log.Printf("reaped %d idle games", removed)
			}
		}
	}
}
