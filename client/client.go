// Package client implements an RCON session: it owns one TCP connection to
// a game server, authenticates it, and exchanges one command at a time.
//
// A Client is deliberately not safe for concurrent command submission. The
// protocol has no pipelining, so every exchange is a strict write-then-read
// round trip; callers that want to share a Client across goroutines must
// serialise access themselves. Close alone is safe to call while a command
// is in flight, so an interrupt handler can tear the session down.
package client

import (
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/rcon/protocol"
)

// DefaultTimeout bounds a single request/response round trip when
// Options.Timeout is left zero. A silent or dead server fails the exchange
// instead of hanging the caller forever.
const DefaultTimeout = 15 * time.Second

type Options struct {
	// Timeout bounds each exchange (the dial, and every read and write).
	// Zero means DefaultTimeout; negative disables deadlines entirely.
	Timeout time.Duration

	// Log receives debug output for each exchange. Nil means no logging.
	// Passwords are never logged.
	Log *zap.Logger
}

// Client is an authenticated RCON session over a single TCP connection.
type Client struct {
	conn      net.Conn
	requestID int32
	timeout   time.Duration
	log       *zap.Logger

	closeOnce sync.Once

	// closed is read by the exchange path and written by Close, which may
	// run on an interrupt goroutine while an exchange is blocked, so the
	// flag is atomic. The exchange path itself takes no locks.
	closed uint32
}

// Open connects to host:port and authenticates with password. A transport
// failure returns a *ConnectionError before any handshake is attempted. If
// the server rejects the password, the socket is closed and ErrAuthFailure
// is returned; any other handshake error likewise closes the socket before
// propagating. A failing cleanup close is appended to the primary error
// rather than replacing it.
//
// On success the returned Client is ready for SendCommand. The handshake
// consumes request id 1, so the first command uses id 2.
func Open(host string, port int, password string, options Options) (*Client, error) {
	timeout := options.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var dialTimeout time.Duration
	if timeout > 0 {
		dialTimeout = timeout
	}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, &ConnectionError{Op: "open connection to " + addr, Err: err}
	}

	c := &Client{
		conn:      conn,
		requestID: 1,
		timeout:   timeout,
		log:       log,
	}

	log.Debug("Connected, authenticating", zap.String("addr", addr))

	if _, err := c.exchange(protocol.TypeAuth, password); err != nil {
		// The socket is released on every failing exit path out of Open; if
		// that cleanup itself fails it is attached as a secondary error.
		return nil, multierr.Append(err, c.Close())
	}

	log.Debug("Authenticated", zap.String("addr", addr))

	return c, nil
}

// SendCommand sends one command to the server and returns the response
// body. An empty string is a normal, successful response for many commands
// and must not be treated as a failure.
//
// The next request id is allocated exactly once per call, before any I/O.
// Any error fatal to the exchange tears the connection down; the Client is
// unusable afterwards and further calls return a *ConnectionError carrying
// ErrClosed.
func (c *Client) SendCommand(command string) (string, error) {
	return c.exchange(protocol.TypeCommand, command)
}

// Close releases the connection. It is safe to call more than once, and
// safe to call from a signal handler while an exchange is blocked; the
// blocked read fails with a ConnectionError.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		atomic.StoreUint32(&c.closed, 1)
		err = c.conn.Close()
	})

	return err
}

func (c *Client) exchange(typ protocol.Type, payload string) (string, error) {
	if atomic.LoadUint32(&c.closed) == 1 {
		return "", &ConnectionError{Op: "send request", Err: ErrClosed}
	}

	requestID := c.requestID
	c.requestID++

	frame, err := protocol.Encode(requestID, typ, payload)
	if err != nil {
		return "", err
	}

	c.logFrame("sending frame", requestID, typ, payload)

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", c.fatal(&ConnectionError{Op: "set deadline", Err: err})
		}
	}

	n, err := c.conn.Write(frame)
	if err != nil {
		return "", c.fatal(&ConnectionError{Op: "write", Expected: len(frame), Actual: n, Err: err})
	}

	body, err := c.readResponse(requestID)
	if err != nil {
		return "", c.fatal(err)
	}

	return body, nil
}

// readResponse consumes exactly one response frame and correlates it to
// requestID. The auth failure sentinel takes priority over correlation.
func (c *Client) readResponse(requestID int32) (string, error) {
	header, err := c.readExact("read frame header", protocol.HeaderSize)
	if err != nil {
		return "", err
	}

	size, err := protocol.DecodeHeader(header)
	if err != nil {
		return "", err
	}

	if size < protocol.OverheadSize {
		return "", &ProtocolError{
			Reason: "declared frame size " + strconv.Itoa(int(size)) +
				" is below the minimum " + strconv.Itoa(protocol.OverheadSize),
		}
	}

	body, err := c.readExact("read frame body", int(size)-protocol.TerminatorSize)
	if err != nil {
		return "", err
	}

	terminator, err := c.readExact("read frame terminator", protocol.TerminatorSize)
	if err != nil {
		return "", err
	}

	if terminator[0] != 0 || terminator[1] != 0 {
		return "", &ProtocolError{
			Reason: "expected two NUL terminator bytes but received " +
				strconv.Itoa(int(terminator[0])) + " and " + strconv.Itoa(int(terminator[1])),
		}
	}

	responseID, responseType, text, err := protocol.DecodeBody(body)
	if err != nil {
		return "", err
	}

	if responseID == protocol.AuthFailureID {
		return "", ErrAuthFailure
	}

	if responseID != requestID {
		return "", &ProtocolError{
			Reason: "sent request id " + strconv.Itoa(int(requestID)) +
				" but received " + strconv.Itoa(int(responseID)),
		}
	}

	c.logFrame("received frame", responseID, protocol.Type(responseType), text)

	return text, nil
}

func (c *Client) readExact(op string, size int) ([]byte, error) {
	b := make([]byte, size)

	n, err := io.ReadFull(c.conn, b)
	if err != nil {
		return nil, &ConnectionError{Op: op, Expected: size, Actual: n, Err: err}
	}

	return b, nil
}

// fatal tears the connection down after an unrecoverable exchange error.
// The session never re-enters a usable state; reconnecting is the caller's
// decision. A failing close is attached to the primary error as a
// secondary cause rather than replacing or hiding it.
func (c *Client) fatal(err error) error {
	return multierr.Append(err, c.Close())
}

func (c *Client) logFrame(msg string, id int32, typ protocol.Type, payload string) {
	if !c.log.Core().Enabled(zap.DebugLevel) {
		return
	}

	fields := []zap.Field{
		zap.Int32("id", id),
		zap.Int32("type", int32(typ)),
	}

	// Auth payloads are passwords; log their length only.
	if typ == protocol.TypeAuth {
		fields = append(fields, zap.Int("payloadLen", len(payload)))
	} else {
		fields = append(fields, zap.String("payload", payload))
	}

	c.log.Debug(msg, fields...)
}
