// Package compress implements the ORC compressed-block stream: a byte range
// of the file, framed into chunks when the file is compressed, that yields
// a single logical uncompressed byte stream.
package compress

import (
	"bytes"
	"context"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"

	orcerrors "github.com/omyshell/presto/src/orc/errors"
	"github.com/omyshell/presto/src/orc/source"
)

// Kind is the compression codec a stripe/file was written with.
type Kind uint8

const (
	KindNone Kind = iota
	KindZlib
	KindSnappy
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindZlib:
		return "zlib"
	case KindSnappy:
		return "snappy"
	default:
		return "unknown"
	}
}

// chunk header: 3 bytes little-endian, 24 bits total; the low bit is the
// "original" (uncompressed) flag, the remaining 23 bits (header>>1) are the
// on-disk chunk length - matches the real ORC/DWRF chunk encoding, not an
// independent choice.
const chunkHeaderLen = 3

// Position snapshots where a BlockStream's consumer is, in terms that a
// row-index entry can store and later hand back to SkipTo: the byte offset
// (relative to the stream's start) of the chunk currently being read, and
// the consumer's offset within that chunk's decompressed bytes.
type Position struct {
	ChunkOffset      int64
	UncompressedByte int64
}

// BlockStream wraps a [start, start+length) byte range of a Source and a
// compression Kind and exposes it as a single logical uncompressed stream.
type BlockStream struct {
	ctx  context.Context
	src  source.Source
	name string

	start     int64
	length    int64
	kind      Kind
	blockSize int

	// nextHeader is the offset (relative to start) of the next unread
	// chunk header; curChunkOff is the header offset of the chunk
	// currently buffered, the ChunkOffset that Position reports.
	nextHeader  int64
	curChunkOff int64
	buf         []byte
	bufPos      int
	eof         bool
}

// New returns a BlockStream over src[start:start+length) compressed with kind.
func New(ctx context.Context, src source.Source, start, length int64, kind Kind, blockSize int) *BlockStream {
	return &BlockStream{
		ctx: ctx, src: src, name: src.Name(),
		start: start, length: length, kind: kind, blockSize: blockSize,
	}
}

func (bs *BlockStream) corruptErr(msg string) error {
	return orcerrors.Malformed(orcerrors.Context{File: bs.name, ByteOffset: bs.start + bs.nextHeader, HasOffset: true}, msg, nil)
}

// fillBuffer reads and decompresses the next chunk into bs.buf, starting at
// bs.nextHeader. If the stream carries no compression, the "chunk" is the
// remainder of the byte range, read in one shot the first time.
func (bs *BlockStream) fillBuffer() error {
	if bs.nextHeader >= bs.length {
		bs.eof = true
		return nil
	}
	bs.curChunkOff = bs.nextHeader

	if bs.kind == KindNone {
		remaining := bs.length - bs.nextHeader
		raw, err := bs.src.ReadRange(bs.ctx, bs.start+bs.nextHeader, remaining)
		if err != nil {
			return err
		}
		bs.buf = raw
		bs.bufPos = 0
		bs.nextHeader = bs.length
		return nil
	}

	if bs.nextHeader+chunkHeaderLen > bs.length {
		return bs.corruptErr("truncated chunk header")
	}
	hdr, err := bs.src.ReadRange(bs.ctx, bs.start+bs.nextHeader, chunkHeaderLen)
	if err != nil {
		return err
	}
	header := uint32(hdr[0]) | uint32(hdr[1])<<8 | uint32(hdr[2])<<16
	isOriginal := header&1 == 1
	chunkLen := int64(header >> 1)
	if chunkLen == 0 && !isOriginal {
		return bs.corruptErr("zero-length compressed chunk")
	}
	payloadOff := bs.nextHeader + chunkHeaderLen
	if payloadOff+chunkLen > bs.length {
		return bs.corruptErr("chunk length overruns stream")
	}
	payload, err := bs.src.ReadRange(bs.ctx, bs.start+payloadOff, chunkLen)
	if err != nil {
		return err
	}
	bs.nextHeader = payloadOff + chunkLen

	if isOriginal {
		bs.buf = payload
		bs.bufPos = 0
		return nil
	}

	decoded, err := bs.decompress(payload)
	if err != nil {
		return err
	}
	bs.buf = decoded
	bs.bufPos = 0
	return nil
}

func (bs *BlockStream) decompress(payload []byte) ([]byte, error) {
	switch bs.kind {
	case KindZlib:
		fr := flate.NewReader(bytes.NewReader(payload))
		defer fr.Close()
		out, err := io.ReadAll(fr)
		if err != nil {
			return nil, orcerrors.Decompress(orcerrors.Context{File: bs.name}, "zlib/deflate decode failed", err)
		}
		if bs.blockSize > 0 && len(out) > bs.blockSize {
			return nil, bs.corruptErr("decompressed chunk exceeds compression block size")
		}
		return out, nil
	case KindSnappy:
		out, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, orcerrors.Decompress(orcerrors.Context{File: bs.name}, "snappy decode failed", err)
		}
		if bs.blockSize > 0 && len(out) > bs.blockSize {
			return nil, bs.corruptErr("decompressed chunk exceeds compression block size")
		}
		return out, nil
	default:
		return nil, orcerrors.UnsupportedMetadata(orcerrors.Context{File: bs.name}, "unknown compression kind")
	}
}

// ReadByte returns the next uncompressed byte of the stream.
func (bs *BlockStream) ReadByte() (byte, error) {
	for bs.bufPos >= len(bs.buf) {
		if bs.eof {
			return 0, io.EOF
		}
		if err := bs.fillBuffer(); err != nil {
			return 0, err
		}
		if bs.eof {
			return 0, io.EOF
		}
	}
	b := bs.buf[bs.bufPos]
	bs.bufPos++
	return b, nil
}

// ReadBytes returns the next n uncompressed bytes, possibly spanning
// several chunks.
func (bs *BlockStream) ReadBytes(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		for bs.bufPos >= len(bs.buf) {
			if bs.eof {
				return nil, io.ErrUnexpectedEOF
			}
			if err := bs.fillBuffer(); err != nil {
				return nil, err
			}
			if bs.eof {
				return nil, io.ErrUnexpectedEOF
			}
		}
		take := n - len(out)
		if avail := len(bs.buf) - bs.bufPos; take > avail {
			take = avail
		}
		out = append(out, bs.buf[bs.bufPos:bs.bufPos+take]...)
		bs.bufPos += take
	}
	return out, nil
}

// Skip advances n uncompressed bytes without materialising them, skipping
// whole chunks where possible.
func (bs *BlockStream) Skip(n int) error {
	for n > 0 {
		if bs.bufPos >= len(bs.buf) {
			if bs.eof {
				return io.ErrUnexpectedEOF
			}
			if err := bs.fillBuffer(); err != nil {
				return err
			}
			if bs.eof {
				return io.ErrUnexpectedEOF
			}
		}
		avail := len(bs.buf) - bs.bufPos
		if avail > n {
			bs.bufPos += n
			return nil
		}
		n -= avail
		bs.bufPos = len(bs.buf)
	}
	return nil
}

// ReadAll drains the entire logical uncompressed stream - used for metadata
// sections (footer, stripe footer, row index) which are read in one shot
// rather than incrementally.
func (bs *BlockStream) ReadAll() ([]byte, error) {
	var out []byte
	for {
		for bs.bufPos < len(bs.buf) {
			out = append(out, bs.buf[bs.bufPos:]...)
			bs.bufPos = len(bs.buf)
		}
		if bs.eof {
			return out, nil
		}
		if err := bs.fillBuffer(); err != nil {
			return nil, err
		}
		if bs.eof {
			return out, nil
		}
	}
}

// EndOfStream reports whether every uncompressed byte has been consumed.
func (bs *BlockStream) EndOfStream() bool {
	return bs.bufPos >= len(bs.buf) && bs.nextHeader >= bs.length
}

// Position returns the current decode position, suitable for storing in a
// row-index entry.
func (bs *BlockStream) Position() Position {
	return Position{ChunkOffset: bs.curChunkOff, UncompressedByte: int64(bs.bufPos)}
}

// SkipTo jumps directly to a previously recorded Position - used to resume
// decoding at a row-group boundary.
func (bs *BlockStream) SkipTo(pos Position) error {
	bs.nextHeader = pos.ChunkOffset
	bs.eof = false
	bs.buf = nil
	bs.bufPos = 0
	if err := bs.fillBuffer(); err != nil {
		return err
	}
	if pos.UncompressedByte > int64(len(bs.buf)) {
		return bs.corruptErr("uncompressed offset beyond chunk bounds")
	}
	bs.bufPos = int(pos.UncompressedByte)
	return nil
}
