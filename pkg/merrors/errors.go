// Package merrors defines the typed error taxonomy described in spec §7:
// configuration errors, handshake errors, frame errors, deserialization
// errors, and insert-outcome errors. Each is a plain struct implementing
// error; all but InsertOutcomeError (which wraps no cause) also implement
// Unwrap, in the shape of the teacher's common.EntityNotFoundError
// family, built on github.com/pkg/errors for stack-aware wrapping.
package merrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError indicates a missing or malformed client-local
// configuration field. These are fatal at startup.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("configuration error: field %q", e.Field)
}

func (e ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError wraps err with the offending field name, preserving
// a stack trace via github.com/pkg/errors.
func NewConfigurationError(field string, err error) ConfigurationError {
	return ConfigurationError{
		Field: field,
		Err:   errors.Wrapf(err, "missing or invalid field %q", field),
	}
}

// HandshakeReason enumerates the handshake failure taxonomy from spec §7.
type HandshakeReason uint8

const (
	NoConnection HandshakeReason = iota
	CredsExchangeFailed
	InvalidJWT
	InvalidRepeatToken
)

func (r HandshakeReason) String() string {
	switch r {
	case NoConnection:
		return "NO_CONNECTION"
	case CredsExchangeFailed:
		return "CREDS_EXCHANGE_FAILED"
	case InvalidJWT:
		return "INVALID_JWT"
	case InvalidRepeatToken:
		return "INVALID_REPEAT_TOKEN"
	default:
		return "UNKNOWN_HANDSHAKE_REASON"
	}
}

// HandshakeError surfaces a failure during the four-step mutual
// authentication handshake (spec §6).
type HandshakeError struct {
	Reason HandshakeReason
	Err    error
}

func (e HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake failed (%s): %s", e.Reason, e.Err)
	}

	return fmt.Sprintf("handshake failed (%s)", e.Reason)
}

func (e HandshakeError) Unwrap() error { return e.Err }

// NewHandshakeError wraps err with a reason, recording a stack trace.
func NewHandshakeError(reason HandshakeReason, err error) HandshakeError {
	return HandshakeError{Reason: reason, Err: errors.WithStack(err)}
}

// FrameError indicates a malformed network frame: truncated, unrecognized
// protocol tag, or decryption failure. Per spec §7 these are dropped and
// logged, never fatal.
type FrameError struct {
	Message string
	Err     error
}

func (e FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame error: %s: %s", e.Message, e.Err)
	}

	return fmt.Sprintf("frame error: %s", e.Message)
}

func (e FrameError) Unwrap() error { return e.Err }

// DeserializationError indicates a short buffer or unrecognized variant tag
// while decoding a request/response body. Per spec §7 these are dropped
// with a log; they are distinct from a load-warning (which is not an
// error at all — see internal/domain.LoadWarning).
type DeserializationError struct {
	Entity  string
	Message string
	Err     error
}

func (e DeserializationError) Error() string {
	return fmt.Sprintf("deserialize %s: %s", e.Entity, e.Message)
}

func (e DeserializationError) Unwrap() error { return e.Err }

// NewDeserializationError builds a DeserializationError for entity, noting
// why decoding failed.
func NewDeserializationError(entity, message string) DeserializationError {
	return DeserializationError{Entity: entity, Message: message}
}

// InsertOutcomeCode mirrors the InsertResponseCode family from spec §4.5.
type InsertOutcomeCode uint8

const (
	InsertNone InsertOutcomeCode = iota
	InsertSuccess
	InsertFailed
	InsertDrawingExists
)

// InsertOutcomeError communicates a non-success insert response code to the
// caller. A DrawingExists outcome is always advisory, never fatal — callers
// may retry with force=true (spec §4.5, §7 invariants).
type InsertOutcomeError struct {
	Code InsertOutcomeCode
}

func (e InsertOutcomeError) Error() string {
	switch e.Code {
	case InsertFailed:
		return "insert failed"
	case InsertDrawingExists:
		return "drawing already exists"
	default:
		return "insert outcome: none"
	}
}

// Advisory reports whether this outcome should be retried rather than
// surfaced as a hard failure.
func (e InsertOutcomeError) Advisory() bool {
	return e.Code == InsertDrawingExists
}
