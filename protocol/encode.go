package protocol

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// ErrPayloadEncoding is returned by Encode when a payload contains
// characters outside US-ASCII. The protocol has no charset negotiation so
// the codec fails fast instead of substituting characters.
var ErrPayloadEncoding = errors.New("rcon: payload is not representable in US-ASCII")

// Encode serialises a complete frame ready for transmission: the declared
// size, the request id, the type, the payload, and the two terminating NUL
// bytes, with all integers little-endian.
//
// The codec places no upper bound on the payload length; bounding frame
// sizes is the transport's concern.
func Encode(requestID int32, typ Type, payload string) ([]byte, error) {
	for i := 0; i < len(payload); i++ {
		if payload[i] >= utf8.RuneSelf {
			return nil, ErrPayloadEncoding
		}
	}

	size := int32(OverheadSize + len(payload))

	b := make([]byte, HeaderSize+size)
	binary.LittleEndian.PutUint32(b[0:], uint32(size))
	binary.LittleEndian.PutUint32(b[4:], uint32(requestID))
	binary.LittleEndian.PutUint32(b[8:], uint32(typ))
	copy(b[12:], payload)
	// The final two bytes are the zero terminator, already zeroed by make.

	return b, nil
}
