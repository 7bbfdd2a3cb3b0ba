package domain

import "errors"

// Frame errors: violations of the wire codec's own rules. Incomplete is
// soft and handled by the caller reading more bytes; the rest are hard and
// end the connection.
var (
	ErrIncomplete        = errors.New("frame: incomplete")
	ErrInvalidOpCode     = errors.New("frame: invalid op code")
	ErrInvalidStatusCode = errors.New("frame: invalid status code")
	ErrKeyTooLong        = errors.New("frame: key too long")
	ErrValueTooLong      = errors.New("frame: value too long")
)

// Parse errors: a structurally valid frame that violates the semantic
// shape Request/Response expects for its op code.
var (
	ErrKeyMissing      = errors.New("parse: key missing")
	ErrValueMissing    = errors.New("parse: value missing")
	ErrUnexpectedKey   = errors.New("parse: unexpected key")
	ErrUnexpectedValue = errors.New("parse: unexpected value")
)

// Connection errors: transport-level failures.
var (
	ErrResetByPeer      = errors.New("connection: reset by peer")
	ErrAcquireSemaphore = errors.New("connection: could not acquire capacity permit")
	ErrSend             = errors.New("connection: send failed")
	ErrReceive          = errors.New("connection: receive failed")
)

// Client errors: semantic mismatches observed by the client library.
var (
	ErrUnexpectedOpCode = errors.New("client: response op code did not match request")
)
