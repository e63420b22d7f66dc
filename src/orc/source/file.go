package source

import (
	"context"
	"io"
	"os"

	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// FileSource reads byte ranges out of a local file via pread (io.ReaderAt).
// Multiple goroutines may call ReadRange concurrently: os.File.ReadAt does
// not share a cursor, so no locking is required here.
type FileSource struct {
	f    *os.File
	path string
	size int64
}

// OpenFile opens path and stats it once up front so Size() never needs to
// touch the filesystem again.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, orcerrors.IoError(orcerrors.Context{File: path}, "cannot open file", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, orcerrors.IoError(orcerrors.Context{File: path}, "cannot stat file", err)
	}
	return &FileSource{f: f, path: path, size: st.Size()}, nil
}

func (fs *FileSource) Size() int64  { return fs.size }
func (fs *FileSource) Name() string { return fs.path }

func (fs *FileSource) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > fs.size {
		return nil, orcerrors.Malformed(orcerrors.Context{File: fs.path, ByteOffset: offset, HasOffset: true},
			"range out of file bounds", nil)
	}
	buf := make([]byte, length)
	n, err := fs.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, shortRead(fs.path, offset, length, n, err)
	}
	if int64(n) != length {
		return nil, shortRead(fs.path, offset, length, n, io.ErrUnexpectedEOF)
	}
	return buf, nil
}

func (fs *FileSource) Close() error { return fs.f.Close() }
