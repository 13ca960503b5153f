package protocol

// This package implements the serialising and parsing of frames for the
// Source-engine-derived RCON protocol, as spoken by Minecraft servers
// (enable-rcon=true in server.properties) and most Source dedicated servers.
//
// RCON is a binary request/response protocol over a single TCP connection.
// The client authenticates once with the server password and then sends
// administrative commands one at a time; the server answers each request
// with exactly one response.
//
// === Frame layout
//
// Every frame, in either direction, has the same shape. All integers are
// signed 32bit little-endian.
//
//   ```
//   [4 bytes: size]        counts every byte that follows it
//   [4 bytes: request id]
//   [4 bytes: type]
//   [N bytes: payload]     US-ASCII text
//   [1 byte:  0x00]
//   [1 byte:  0x00]
//   ```
//
// So `size` is always 10 + len(payload): id (4) + type (4) + the two
// terminating NUL bytes.
//
// === Types
//
// - `3` (AUTH)    - client login request, payload is the password
// - `2` (COMMAND) - client command request, payload is the command text
//
// Response frames echo a type back (2 for auth responses, 0 for command
// output); this client does not interpret it further.
//
// === Request ids
//
// The client picks the request id and the server echoes it back, which is
// how a response is matched to its request. There is one reserved value:
// a response id of `-1` means the password was rejected. That sentinel is
// checked before id correlation.
//
// === Text encoding
//
// Payloads are US-ASCII in both directions. The codec refuses to encode
// payloads containing bytes above 0x7F rather than silently mangling them.
