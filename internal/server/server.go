// Package server implements the embedded HTTP/1.1 server: a plain TCP
// accept loop, one goroutine per connection, and a hand-rolled
// request/response cycle on top of the wire codec. No net/http.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/mhoffman/alfred/internal/wire"
)

const (
	defaultDeadline = 30 * time.Second
	defaultMaxConns = 256
)

// Options configures a Server.
type Options struct {
	Addr     string
	Router   *Router
	Passcode *Passcode
	Logger   zerolog.Logger
	WebDir   string

	// ConnDeadline bounds each connection's reads and writes. The
	// original design had no deadline at all; this is a deliberate
	// hardening addition so a hung client cannot pin a goroutine.
	ConnDeadline time.Duration

	// MaxConns caps concurrently handled connections. Also a hardening
	// addition over the original's unbounded fan-out.
	MaxConns int64
}

// Server owns the listening socket and the per-connection lifecycle.
type Server struct {
	addr     string
	router   *Router
	passcode *Passcode
	logger   zerolog.Logger
	webDir   string
	deadline time.Duration

	sem      *semaphore.Weighted
	listener net.Listener
	wg       sync.WaitGroup
	closing  atomic.Bool
}

func New(opts Options) *Server {
	if opts.ConnDeadline <= 0 {
		opts.ConnDeadline = defaultDeadline
	}
	if opts.MaxConns <= 0 {
		opts.MaxConns = defaultMaxConns
	}
	return &Server{
		addr:     opts.Addr,
		router:   opts.Router,
		passcode: opts.Passcode,
		logger:   opts.Logger,
		webDir:   opts.WebDir,
		deadline: opts.ConnDeadline,
		sem:      semaphore.NewWeighted(opts.MaxConns),
	}
}

// Start binds the TCP port and begins accepting connections. It
// returns once the listener is live; accepting happens on its own
// goroutine.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("server listening")
	go s.acceptLoop()
	return nil
}

// Addr returns the bound address, useful when Start was given port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Stop closes the listening socket and waits for in-flight
// connections to finish. They are never forcibly terminated.
func (s *Server) Stop() {
	s.closing.Store(true)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	s.logger.Info().Msg("server stopped")
}

// acceptLoop accepts connections until the listener closes. A single
// failed accept is logged and the loop keeps going.
func (s *Server) acceptLoop() {
	ctx := context.Background()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}
			s.logger.Error().Err(err).Msg("accept failed")
			continue
		}

		if err := s.sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sem.Release(1)
			s.handleConn(conn)
		}()
	}
}

// handleConn runs one connection through decode, auth, routing and the
// response write. The connection closes on every exit path, and every
// request gets exactly one response unless the input was unreadable.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	logger := s.logger.With().Str("conn_id", uuid.NewString()).Logger()

	if err := conn.SetDeadline(time.Now().Add(s.deadline)); err != nil {
		logger.Error().Err(err).Msg("set connection deadline")
		return
	}

	start := time.Now()
	req, err := wire.ReadRequest(conn)
	if err != nil {
		// Garbage input degrades to silence: no response, just close.
		logger.Debug().Err(err).Msg("dropping unreadable connection")
		return
	}

	logger = logger.With().Str("method", req.Method).Str("path", req.Path).Logger()

	var resp *wire.Response
	switch {
	case s.router.IsPublic(req.Path):
		resp = s.serveIndex()
	case !s.passcode.Matches(req):
		resp = wire.Error(401, "unauthorized")
	default:
		resp = s.router.Dispatch(context.Background(), req)
	}

	if _, err := conn.Write(resp.Encode()); err != nil {
		logger.Error().Err(err).Msg("write response")
		return
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request handled")
}
