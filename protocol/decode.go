package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrShortHeader = errors.New("rcon: frame header needs 4 bytes")
	ErrShortBody   = errors.New("rcon: frame body needs at least 8 bytes for id and type")
)

// DecodeHeader reads the declared frame size from the first 4 bytes of b.
// It never inspects anything past those 4 bytes, so b may already contain
// body bytes (or nothing else at all).
func DecodeHeader(b []byte) (int32, error) {
	if len(b) < HeaderSize {
		return 0, ErrShortHeader
	}

	return int32(binary.LittleEndian.Uint32(b[:HeaderSize])), nil
}

// DecodeBody splits the middle of a frame, i.e. the declared-size worth of
// bytes minus the trailing terminator, into the response id, the echoed
// type, and the payload text. The terminator itself is not part of b and is
// validated by the caller.
func DecodeBody(b []byte) (id int32, typ int32, body string, err error) {
	if len(b) < OverheadSize-TerminatorSize {
		return 0, 0, "", ErrShortBody
	}

	id = int32(binary.LittleEndian.Uint32(b[0:4]))
	typ = int32(binary.LittleEndian.Uint32(b[4:8]))
	body = string(b[8:])

	return id, typ, body, nil
}

// ReadFrame reads one complete frame from r, validating the declared size
// and the zero terminator. It is the whole-frame counterpart to Encode and
// is what the test server uses to consume client requests; the client's
// session keeps its own read loop so it can report expected byte counts on
// failures.
func ReadFrame(r io.Reader) (id int32, typ Type, payload string, err error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, 0, "", err
	}

	size, err := DecodeHeader(header)
	if err != nil {
		return 0, 0, "", err
	}
	if size < OverheadSize {
		return 0, 0, "", fmt.Errorf("rcon: declared frame size %d is below the minimum %d", size, OverheadSize)
	}

	rest := make([]byte, size)
	if _, err := io.ReadFull(r, rest); err != nil {
		return 0, 0, "", err
	}

	terminator := rest[size-TerminatorSize:]
	if terminator[0] != 0 || terminator[1] != 0 {
		return 0, 0, "", fmt.Errorf("rcon: expected two NUL terminator bytes, got %#02x and %#02x", terminator[0], terminator[1])
	}

	rawID, rawType, body, err := DecodeBody(rest[:size-TerminatorSize])
	if err != nil {
		return 0, 0, "", err
	}

	return rawID, Type(rawType), body, nil
}
