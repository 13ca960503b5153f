package client

import (
	"errors"
	"fmt"
)

// ErrAuthFailure means the server rejected the password supplied to Open.
// It is always fatal to the open attempt; the socket has already been
// closed by the time this error is returned.
var ErrAuthFailure = errors.New("rcon: authentication failure")

// ErrClosed is the cause carried by the ConnectionError returned when an
// operation is attempted on a client whose connection is gone, either
// because Close was called or because an earlier error tore it down.
var ErrClosed = errors.New("rcon: client is closed")

// ConnectionError wraps any I/O failure opening, reading from, or writing
// to the server connection, including short reads. Expected and Actual
// carry byte counts when the failure happened mid-transfer.
type ConnectionError struct {
	Op       string
	Expected int
	Actual   int
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Expected > 0 {
		return fmt.Sprintf("rcon: failed to %s %d bytes (got %d): %v", e.Op, e.Expected, e.Actual, e.Err)
	}

	return fmt.Sprintf("rcon: failed to %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError means the server sent something structurally readable but
// semantically inconsistent: a nonzero terminator, a response id that does
// not match the request, or a declared size no valid frame can have. It is
// fatal to the session; the connection has been torn down and the client
// must not be reused.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "rcon: protocol error: " + e.Reason
}
