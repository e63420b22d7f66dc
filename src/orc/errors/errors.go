// Package errors defines the failure taxonomy shared across the ORC/DWRF
// reader: IoError, Malformed, UnsupportedMetadata, OrcCorruption and
// DecompressError. None of these are ever swallowed - they propagate to the
// caller and put the reader that raised them into a closed, single-shot
// state.
package errors

import (
	"errors"
	"fmt"
)

// Kind tags one of the five failure categories a reader can surface.
type Kind uint8

const (
	KindIo Kind = iota
	KindMalformed
	KindUnsupportedMetadata
	KindCorruption
	KindDecompress
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io_error"
	case KindMalformed:
		return "malformed"
	case KindUnsupportedMetadata:
		return "unsupported_metadata"
	case KindCorruption:
		return "orc_corruption"
	case KindDecompress:
		return "decompress_error"
	default:
		return "unknown"
	}
}

// Context carries the location information a corruption error should
// report. The location is printed only when File is set; within it,
// StripeIdx, ColumnID and ByteOffset appear only when their Has flag is
// set, and StreamKind only when it is non-empty.
type Context struct {
	File       string
	StripeIdx  int
	HasStripe  bool
	ColumnID   int
	HasColumn  bool
	StreamKind string
	ByteOffset int64
	HasOffset  bool
}

// Error is the single error type surfaced by this module; Kind selects
// which of the taxonomy entries it represents.
type Error struct {
	Kind    Kind
	Context Context
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	c := e.Context
	if c.File != "" {
		s += fmt.Sprintf(" (file=%s", c.File)
		if c.HasStripe {
			s += fmt.Sprintf(" stripe=%d", c.StripeIdx)
		}
		if c.HasColumn {
			s += fmt.Sprintf(" column=%d", c.ColumnID)
		}
		if c.StreamKind != "" {
			s += fmt.Sprintf(" stream=%s", c.StreamKind)
		}
		if c.HasOffset {
			s += fmt.Sprintf(" offset=%d", c.ByteOffset)
		}
		s += ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, ctx Context, msg string, err error) *Error {
	return &Error{Kind: k, Context: ctx, Msg: msg, Err: err}
}

// IoError reports a failed read from the underlying data source.
func IoError(ctx Context, msg string, err error) *Error {
	return newErr(KindIo, ctx, msg, err)
}

// Malformed reports a violation of the compression/stream framing (bad
// chunk header, oversized chunk, truncated varint...).
func Malformed(ctx Context, msg string, err error) *Error {
	return newErr(KindMalformed, ctx, msg, err)
}

// UnsupportedMetadata reports an enum value outside the set the dialect
// declares (unknown compression kind, unknown stream kind, ...).
func UnsupportedMetadata(ctx Context, msg string) *Error {
	return newErr(KindUnsupportedMetadata, ctx, msg, nil)
}

// Corruption reports a structural inconsistency: stream count mismatch,
// statistics inconsistency, truncated stream, negative length, dictionary
// index out of range.
func Corruption(ctx Context, msg string) *Error {
	return newErr(KindCorruption, ctx, msg, nil)
}

// Decompress reports a failure inside the zlib/snappy decompressor.
func Decompress(ctx Context, msg string, err error) *Error {
	return newErr(KindDecompress, ctx, msg, err)
}

// IsKind reports whether err (or something it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind == k
	}
	return false
}

// ErrClosed is returned by any operation attempted on a reader that has
// already transitioned to Closed, whether due to a prior error or an
// explicit Close call.
var ErrClosed = errors.New("orc: reader is closed")
