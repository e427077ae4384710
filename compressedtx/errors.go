package compressedtx

import "fmt"

// ParserError signals that a payload could not be decoded: a short read, an
// invalid discriminant, or an unknown tagged-union variant. The whole
// transaction fails when this is returned; a matched trigger with a corrupt
// payload is not safe to partially index.
type ParserError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ParserError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parser error: %s", e.Reason)
	}
	return fmt.Sprintf("parser error decoding %s: %s", e.Field, e.Reason)
}

func (e *ParserError) Unwrap() error { return e.Cause }

func newParserError(field, reason string, cause error) *ParserError {
	return &ParserError{Field: field, Reason: reason, Cause: cause}
}

// MalformedEvent signals that a payload decoded cleanly but violates a
// structural invariant (output/path-update count mismatch, an
// out-of-range pubkey-table index). The transaction signature is carried so
// operators can correlate the failure with chain state.
type MalformedEvent struct {
	Signature Signature
	Msg       string
}

func (e *MalformedEvent) Error() string {
	return fmt.Sprintf("malformed event in tx %x: %s", e.Signature, e.Msg)
}

func newMalformedEvent(sig Signature, format string, args ...any) *MalformedEvent {
	return &MalformedEvent{Signature: sig, Msg: fmt.Sprintf(format, args...)}
}
