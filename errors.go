package redis

import (
	"errors"
	"fmt"
)

// ServerError is a Redis "-ERR ..." reply, raised on the future awaiting
// the command that produced it. It never touches the connection's
// pipeline state; the engine keeps serving the next reply.
type ServerError string

// Error honors the error interface.
func (e ServerError) Error() string {
	return fmt.Sprintf("redis: server error %q", string(e))
}

// Prefix returns the first word of the error, which Redis uses as an
// error kind (e.g. "WRONGTYPE", "NOSCRIPT").
func (e ServerError) Prefix() string {
	s := string(e)
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

// ProtocolError means a reply did not follow RESP2 framing or did not
// have the shape its command expects. A framing error found by the
// Decoder is fatal for the connection that produced it; an unexpected
// reply shape fails only the command it answered.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("redis: protocol error: %s", e.Detail)
}

// ConnectionLostError wraps the transport error (possibly nil, for a
// clean EOF) that caused an engine to fail every outstanding command.
type ConnectionLostError struct {
	Cause error
}

func (e *ConnectionLostError) Error() string {
	if e.Cause == nil {
		return "redis: connection lost"
	}
	return fmt.Sprintf("redis: connection lost: %s", e.Cause)
}

func (e *ConnectionLostError) Unwrap() error { return e.Cause }

// TypeMismatchError is returned when a reply's variant does not match
// the one the command declares (for example an integer where a bulk
// was expected). It is raised while decoding the reply and does not
// affect the connection.
type TypeMismatchError struct {
	Op       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("redis: %s: expected %s reply, got %s", e.Op, e.Expected, e.Got)
}

// EncodingError means an argument could not be turned into bytes under
// the engine's configured encoding.
type EncodingError struct {
	Detail string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("redis: encoding error: %s", e.Detail)
}

// Sentinel errors without payload.
var (
	// ErrNotInTransaction is returned by exec/discard/unwatch called
	// outside of a MULTI block.
	ErrNotInTransaction = errors.New("redis: not in transaction")

	// ErrAlreadyInTransaction is returned by enterMulti when the
	// engine is already inside MULTI; nesting is rejected.
	ErrAlreadyInTransaction = errors.New("redis: multi calls cannot be nested")

	// ErrTransactionAborted means EXEC replied with a nil multi-bulk
	// because a watched key changed.
	ErrTransactionAborted = errors.New("redis: transaction aborted (watched key changed)")

	// ErrTransactionDiscarded is the error every queued future in a
	// transaction resolves to after DISCARD.
	ErrTransactionDiscarded = errors.New("redis: transaction discarded")

	// ErrTransactionFinished is returned by a Transaction handle used
	// after its own exec/discard already ran.
	ErrTransactionFinished = errors.New("redis: transaction already finished")

	// ErrNotInTransactionContext is returned when a command is sent
	// directly on an engine that is mid-MULTI instead of through its
	// Transaction handle.
	ErrNotInTransactionContext = errors.New("redis: engine is in a transaction; use the Transaction handle")

	// ErrPoolExhausted means every engine in the pool is currently
	// blocking, subscribed, or transactional.
	ErrPoolExhausted = errors.New("redis: pool exhausted, no idle connection")

	// ErrNotSupported marks a command that is deliberately unimplemented.
	ErrNotSupported = errors.New("redis: command not supported")

	// ErrClosed rejects use of a Pool or Engine after Close.
	ErrClosed = errors.New("redis: closed")
)
