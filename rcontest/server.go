// Package rcontest provides an in-process RCON server for exercising
// clients in tests and for local development, in the spirit of
// net/http/httptest. The server speaks the real wire protocol, records
// every request it decodes, and lets tests script arbitrary responses,
// including malformed ones.
package rcontest

import (
	"errors"
	"net"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/zap"

	"github.com/luma/rcon/protocol"
)

// Request is one frame decoded from a client.
type Request struct {
	ID      int32
	Type    protocol.Type
	Payload string
}

// Handler produces the raw bytes written back for one command request.
// Returning raw bytes (rather than a decoded response) lets tests inject
// mismatched ids, bad terminators, and other wire-level corruption.
type Handler func(req Request) []byte

// Server is a scriptable RCON server bound to an ephemeral localhost port.
type Server struct {
	password string
	handler  Handler
	log      *zap.Logger

	listener net.Listener

	connWaiter sync.WaitGroup

	mu           sync.Mutex
	activeConns  map[net.Conn]struct{}
	requests     []Request
	clientClosed bool
}

type Option func(*Server)

// WithHandler scripts the response to command requests. Auth requests are
// always answered by the server itself based on its password.
func WithHandler(h Handler) Option {
	return func(s *Server) {
		s.handler = h
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer starts a server accepting connections on 127.0.0.1:0. Auth
// requests carrying password succeed with an id echo; any other password is
// answered with the -1 sentinel. Command requests go to the configured
// handler, or are answered with an id echo and an empty body by default.
func NewServer(password string, options ...Option) (*Server, error) {
	s := &Server{
		password:    password,
		log:         zap.NewNop(),
		activeConns: make(map[net.Conn]struct{}),
	}

	for _, option := range options {
		option(s)
	}

	listener, err := reuseport.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s.listener = listener

	s.connWaiter.Add(1)
	go func() {
		defer s.connWaiter.Done()
		s.acceptLoop()
	}()

	return s, nil
}

// Addr returns the host:port the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Host() string {
	return "127.0.0.1"
}

func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Requests returns a copy of every request decoded so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ClientClosed reports whether a client has closed its end of a
// connection.
func (s *Server) ClientClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clientClosed
}

// Close stops the listener, closes any active connections, and waits for
// the connection goroutines to drain.
func (s *Server) Close() {
	if err := s.listener.Close(); err != nil {
		s.log.Warn("Listener did not close cleanly", zap.Error(err))
	}

	s.mu.Lock()
	for conn := range s.activeConns {
		_ = conn.Close()
		delete(s.activeConns, conn)
	}
	s.mu.Unlock()

	s.connWaiter.Wait()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// The listener was closed while we were waiting for new
			// connections; that's fine.
			return
		}

		s.connWaiter.Add(1)
		go func() {
			defer s.connWaiter.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	s.mu.Lock()
	s.activeConns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()

		s.mu.Lock()
		delete(s.activeConns, conn)
		s.mu.Unlock()
	}()

	log := s.log.Named("conn").With(zap.String("remote", conn.RemoteAddr().String()))

	for {
		id, typ, payload, err := protocol.ReadFrame(conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			s.mu.Lock()
			s.clientClosed = true
			s.mu.Unlock()

			log.Debug("Client went away", zap.Error(err))
			return
		}

		req := Request{ID: id, Type: typ, Payload: payload}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		response := s.respond(req)

		if _, err := conn.Write(response); err != nil {
			log.Warn("Failed to write response", zap.Error(err))
			return
		}
	}
}

func (s *Server) respond(req Request) []byte {
	if req.Type == protocol.TypeAuth {
		id := req.ID
		if req.Payload != s.password {
			id = protocol.AuthFailureID
		}

		return mustEncode(id, protocol.TypeAuthResponse, "")
	}

	if s.handler != nil {
		return s.handler(req)
	}

	return mustEncode(req.ID, protocol.TypeResponseValue, "")
}

func mustEncode(id int32, typ protocol.Type, payload string) []byte {
	b, err := protocol.Encode(id, typ, payload)
	if err != nil {
		panic(err)
	}

	return b
}
