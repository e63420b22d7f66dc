package column

import (
	"github.com/omyshell/presto/src/bitmap"
	"github.com/omyshell/presto/src/orc/stream"
)

// Reader is the capability set every column-family reader implements; the
// set is closed and known at compile time, so dispatch is a plain
// interface call rather than a dynamic visitor.
type Reader interface {
	// StartRowGroup seeks every stream this reader owns to the position its
	// own column id's row-index entry recorded, looking that vector up from
	// ps. Composite readers look up their own entry for PRESENT/LENGTH and
	// pass ps down unchanged so each child resolves its own.
	StartRowGroup(ps stream.PositionSource) error
	// ReadBatch decodes exactly size rows into out and returns size; the
	// caller bounds size by the rows left in the current row group.
	ReadBatch(out *Batch, size int) (int, error)
	// Skip advances n rows without materializing them.
	Skip(n int) error
}

// present wraps the optional PRESENT boolean stream shared by every leaf
// reader: absent means every row in the stripe is non-null (invariant I1).
// The decoded bits are held in a bitmap, the same presence-vector
// representation the rest of this codebase uses for set/count operations
// over a row range, rather than summed by hand one bit at a time.
type present struct {
	stream *stream.BooleanStream
	bm     *bitmap.Bitmap
	buf    []bool
}

func (p *present) fill(n int, mask []bool) (nonNull int, err error) {
	if p.stream == nil {
		for i := 0; i < n; i++ {
			mask[i] = false
		}
		return n, nil
	}
	if cap(p.buf) < n {
		p.buf = make([]bool, n)
	}
	p.buf = p.buf[:n]
	if err := p.stream.FillSetVector(n, p.buf); err != nil {
		return 0, err
	}
	p.bm = bitmap.NewBitmapFromBools(p.buf)
	for i := 0; i < n; i++ {
		mask[i] = !p.bm.Get(i)
	}
	return p.bm.CountRange(0, n), nil
}

// skip consumes n PRESENT bits and returns how many were non-null, so the
// caller knows how many underlying data values to skip in turn.
func (p *present) skip(n int) (nonNull int, err error) {
	if p.stream == nil {
		return n, nil
	}
	return p.stream.CountSetBits(n)
}

func (p *present) seek(positions *stream.PositionReader) error {
	if p.stream == nil {
		return nil
	}
	return p.stream.Seek(positions)
}
