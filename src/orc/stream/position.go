package stream

import (
	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// PositionReader walks the flat position vector a row-index entry stores
// for one stream. Each primitive stream consumes a fixed arity of entries
// from it: (chunk offset, uncompressed-byte offset, decoder-internal
// offset[, bit offset]).
type PositionReader struct {
	vals []uint64
	pos  int
	name string
}

func NewPositionReader(vals []uint64, name string) *PositionReader {
	return &PositionReader{vals: vals, name: name}
}

// Next returns the next position entry.
func (p *PositionReader) Next() (uint64, error) {
	if p.pos >= len(p.vals) {
		return 0, orcerrors.Corruption(orcerrors.Context{File: p.name}, "row-index position vector exhausted")
	}
	v := p.vals[p.pos]
	p.pos++
	return v, nil
}

// Remaining reports how many entries are left unconsumed.
func (p *PositionReader) Remaining() int { return len(p.vals) - p.pos }
