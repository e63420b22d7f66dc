package reader

import (
	"context"

	"github.com/omyshell/presto/src/orc/compress"
	"github.com/omyshell/presto/src/orc/meta"
	"github.com/omyshell/presto/src/orc/source"
)

type streamKey struct {
	col  int
	kind meta.StreamKind
}

// stripeStreams maps (column id, stream kind) to the BlockStream covering
// that stream's byte range within one stripe, built once per stripe from
// the stripe footer's declaration-ordered stream list: ROW_INDEX and
// BLOOM_FILTER streams occupy the stripe's index region, everything else
// occupies the data region, both in declaration order.
type stripeStreams struct {
	byKey map[streamKey]*compress.BlockStream
}

func buildStripeStreams(ctx context.Context, src source.Source, si StripeRegion, footer_ meta.StripeFooter, kind compress.Kind, blockSize int) *stripeStreams {
	ss := &stripeStreams{byKey: make(map[streamKey]*compress.BlockStream, len(footer_.Streams))}
	indexOff := si.Offset
	dataOff := si.Offset + si.IndexLength
	for _, s := range footer_.Streams {
		var start int64
		if s.Kind == meta.StreamRowIndex || s.Kind == meta.StreamBloomFilter {
			start = indexOff
			indexOff += int64(s.Length)
		} else {
			start = dataOff
			dataOff += int64(s.Length)
		}
		ss.byKey[streamKey{s.Column, s.Kind}] = compress.New(ctx, src, start, int64(s.Length), kind, blockSize)
	}
	return ss
}

func (ss *stripeStreams) get(col int, kind meta.StreamKind) (*compress.BlockStream, bool) {
	bs, ok := ss.byKey[streamKey{col, kind}]
	return bs, ok
}

// StripeRegion is the byte-range subset of meta.StripeInfo the stream
// wiring needs (offset and index length only; data/footer lengths are used
// by the caller to locate the stripe footer itself).
type StripeRegion struct {
	Offset      int64
	IndexLength int64
}
