// Package source provides the random-access byte range abstraction the ORC
// reader opens files through. Reads are independent and must be safe for
// concurrent use - a Source may be shared by several readers scanning
// disjoint byte ranges of the same file.
package source

import (
	"context"

	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// Source answers random-access range reads over a file of known length.
// Implementations may be memory-mapped (zero-copy slices) or pread-based;
// neither is assumed by callers.
type Source interface {
	// ReadRange returns exactly length bytes starting at offset. A range
	// outside the file yields an *orcerrors.Error of KindMalformed; a read
	// that fails or comes back short yields one of KindIo.
	ReadRange(ctx context.Context, offset, length int64) ([]byte, error)
	// Size returns the total size of the underlying file in bytes.
	Size() int64
	// Name identifies the source for error context (a path or object key).
	Name() string
	Close() error
}

func shortRead(name string, offset, wanted int64, got int, err error) error {
	return orcerrors.IoError(orcerrors.Context{File: name, ByteOffset: offset, HasOffset: true},
		"short read", err)
}
