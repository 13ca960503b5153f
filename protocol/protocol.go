package protocol

// Type identifies the purpose of a frame.
type Type int32

const (
	// TypeCommand is a client request carrying a command to execute.
	TypeCommand Type = 2

	// TypeAuth is the client login request carrying the server password.
	TypeAuth Type = 3

	// TypeAuthResponse is echoed by servers answering an auth request.
	TypeAuthResponse Type = 2

	// TypeResponseValue is echoed by servers answering a command request.
	TypeResponseValue Type = 0
)

// AuthFailureID is the reserved response id a server sends when the
// password in an auth request was rejected.
const AuthFailureID int32 = -1

const (
	// HeaderSize is the length of the leading size field.
	HeaderSize = 4

	// TerminatorSize is the length of the trailing pair of NUL bytes.
	TerminatorSize = 2

	// OverheadSize is the number of bytes the size field counts beyond the
	// payload: request id (4) + type (4) + terminator (2). It is also the
	// smallest declared size a well-formed frame can carry.
	OverheadSize = 4 + 4 + TerminatorSize
)
