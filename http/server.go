package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrInvalidUTF8 = errors.New("http: request is not valid UTF-8")

// Backoff bounds between failed accepts, e.g. while the process is out of file descriptors.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server handles one connection at a time: read once, respond once, close.
type Server struct {
	Name    string
	Handler Handler
	Logger  Logger

	ReadBufferSize int
}

func NewServer(name string, handler Handler, logger Logger) *Server {
	return &Server{
		Name:           name,
		Handler:        handler,
		Logger:         logger,
		ReadBufferSize: DefaultReadBufferSize,
	}
}

func (s *Server) ListenAndServe(ctx context.Context, host string, port, backlog int) error {
	listener, err := Listen(ctx, host, port, backlog)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", net.JoinHostPort(host, strconv.Itoa(port)), err)
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is cancelled or the listener fails.
// Each connection is served to completion before the next Accept.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()
	defer listener.Close()

	s.Logger.InfoContext(ctx, "[SERVER RUNNING START]", "server", s.Name, "addr", listener.Addr().String())
	defer s.Logger.InfoContext(ctx, "[SERVER RUNNING END]", "server", s.Name)

	var tempDelay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if tempDelay == 0 {
				tempDelay = minAcceptDelay
			} else {
				tempDelay = min(tempDelay*2, maxAcceptDelay)
			}
			s.Logger.ErrorContext(ctx, "failed to accept connection", "error", err, "retry_in", tempDelay)

			select {
			case <-time.After(tempDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		tempDelay = 0

		s.ServeConn(ctx, conn)
	}
}

// ServeConn serves a single request on conn and always closes it.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	s.Logger.InfoContext(ctx, "connection established", "conn", id, "remote_addr", conn.RemoteAddr().String())

	defer func() {
		if recovered := recover(); recovered != nil {
			s.Logger.ErrorContext(ctx, "exception", "conn", id, "error", fmt.Sprint(recovered))
		}
		if err := conn.Close(); err != nil {
			s.Logger.ErrorContext(ctx, "closing connection failed", "conn", id, "error", err)
		}
		s.Logger.InfoContext(ctx, "connection closed", "conn", id)
	}()

	if err := s.serve(ctx, conn, id); err != nil {
		s.Logger.ErrorContext(ctx, "exception", "conn", id, "error", err)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn, id string) error {
	size := s.ReadBufferSize
	if size <= 0 {
		size = DefaultReadBufferSize
	}
	buf := make([]byte, size)

	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading request: %w", err)
		}
		s.Logger.WarnContext(ctx, "no data received", "conn", id)
		return nil
	}

	raw := buf[:n]
	if !utf8.Valid(raw) {
		return ErrInvalidUTF8
	}

	req := ParseRequest(string(raw))
	s.Logger.DebugContext(ctx, "request parsed", "conn", id, "method", req.Method, "path", req.Path, "version", req.Version)

	res := s.Handler(ctx, req)
	if _, err := res.WriteTo(conn); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}

	s.Logger.InfoContext(ctx, "response sent", "conn", id, "status", res.Status)
	return nil
}
