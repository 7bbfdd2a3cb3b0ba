// Package server implements the TCP supervisor and per-connection handler
// for the cache: bind, accept under a capacity limit, and drive each
// connection's read/decode/dispatch/encode/write loop against a shared
// storage actor.
package server

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gofast-cache/internal/store"
)

// Server binds a listener and serves connections against a shared store,
// holding at most maxConnections concurrently open.
type Server struct {
	store *store.Store
	sem   *semaphore.Weighted
	log   *logrus.Entry

	listener net.Listener

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger overrides the server's logger. Defaults to logrus's standard
// logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Server) { s.log = log }
}

// New constructs a Server backed by st, accepting at most maxConnections
// concurrent connections.
func New(st *store.Store, maxConnections int, opts ...Option) *Server {
	s := &Server{
		store:    st,
		sem:      semaphore.NewWeighted(int64(maxConnections)),
		log:      logrus.NewEntry(logrus.StandardLogger()),
		shutdown: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind opens the listening socket. addr's port may be 0 to request an
// OS-assigned port; use Port after Bind to read it back.
func (s *Server) Bind(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "bind")
	}
	s.listener = l
	return nil
}

// Port returns the TCP port the server is bound to, or 0 if Bind has not
// been called yet.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Run accepts connections until ctx is canceled or a fatal accept error
// occurs, then waits for every in-flight connection handler to finish
// draining. It returns after a full, clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server: Bind must be called before Run")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.acceptLoop(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown()
		return nil
	})
	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil
		}

		conn, err := s.listener.Accept()
		if err != nil {
			s.sem.Release(1)
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer s.sem.Release(1)

	h := newHandler(conn, s.store, s.shutdown, s.log)
	h.run()
}

// Shutdown broadcasts the shutdown signal to every connection handler,
// closes the listener so the accept loop unblocks, and waits for all
// in-flight handlers to finish. Safe to call more than once; safe to call
// concurrently with Run.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.listener != nil {
			s.listener.Close()
		}
	})
	s.wg.Wait()
}
