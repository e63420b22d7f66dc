// Package reader implements the top-level record reader: the state machine
// that opens an ORC/DWRF file, selects stripes and row groups against a
// predicate, wires column readers per stripe, and serves batches.
package reader

import (
	"context"
	"time"

	"github.com/omyshell/presto/src/orc/column"
	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
	"github.com/omyshell/presto/src/orc/meta"
	"github.com/omyshell/presto/src/orc/predicate"
	"github.com/omyshell/presto/src/orc/source"
	"github.com/omyshell/presto/src/orc/stream"
)

type state uint8

const (
	stateReady state = iota
	stateInStripe
	stateInGroup
	stateClosed
)

// Config carries the inputs a Reader is opened with.
type Config struct {
	IncludedColumns []int
	Predicate       predicate.TupleDomain
	Start, Length   int64
	FileZone        *time.Location
	SessionZone     *time.Location
	BatchSize       int
}

const defaultBatchSize = 1024

// Result is one served batch: a row count plus the included columns'
// materialized values, keyed by the column id requested at Open.
type Result struct {
	Rows    int
	Columns map[int]*column.Batch
}

// Reader is a single-threaded state machine over one file. It is not safe
// for concurrent use; callers that want parallelism open multiple Readers
// over disjoint byte ranges of the same Source.
type Reader struct {
	ctx  context.Context
	src  source.Source
	name string
	cfg  Config

	ps     meta.PostScript
	footer meta.Footer
	meta   meta.Metadata

	state state

	selectedStripes []int
	stripePos       int

	stripeInfo   meta.StripeInfo
	stripeFooter meta.StripeFooter
	streams      *stripeStreams
	rowIndexes   map[int]meta.RowIndex
	readers      map[int]column.Reader

	groups      []int
	groupPos    int
	groupRows   int
	groupCursor int
}

// Open parses the postscript, footer and (for ORC, when present) the
// metadata section, then selects the stripes overlapping cfg.Start/Length
// whose statistics the predicate does not reject. DWRF files carry no
// stripe statistics (design note 9a), so stripe-level pruning is skipped
// for them entirely - correctness then rests on row-group pruning alone.
func Open(ctx context.Context, src source.Source, cfg Config) (*Reader, error) {
	name := src.Name()
	size := src.Size()
	if size < 1 {
		return nil, orcerrors.Malformed(orcerrors.Context{File: name}, "file too small to contain a postscript", nil)
	}

	lenByte, err := src.ReadRange(ctx, size-1, 1)
	if err != nil {
		return nil, err
	}
	psLen := int64(lenByte[0])
	if psLen <= 0 || size-1-psLen < 0 {
		return nil, orcerrors.Malformed(orcerrors.Context{File: name}, "invalid postscript length", nil)
	}
	psBytes, err := src.ReadRange(ctx, size-1-psLen, psLen)
	if err != nil {
		return nil, err
	}
	ps, err := meta.ParsePostScript(name, psBytes)
	if err != nil {
		return nil, err
	}

	footerEnd := size - 1 - psLen
	footerStart := footerEnd - int64(ps.FooterLength)
	if footerStart < 0 {
		return nil, orcerrors.Malformed(orcerrors.Context{File: name}, "footer length overruns file", nil)
	}
	footerBS := compress.New(ctx, src, footerStart, int64(ps.FooterLength), ps.Compression, int(ps.CompressionBlockSize))
	footerRaw, err := footerBS.ReadAll()
	if err != nil {
		return nil, err
	}
	footer, err := meta.ParseFooter(name, footerRaw)
	if err != nil {
		return nil, err
	}

	var md meta.Metadata
	if ps.Dialect == meta.DialectORC && ps.MetadataLength > 0 {
		metadataStart := footerStart - int64(ps.MetadataLength)
		if metadataStart < 0 {
			return nil, orcerrors.Malformed(orcerrors.Context{File: name}, "metadata length overruns file", nil)
		}
		metaBS := compress.New(ctx, src, metadataStart, int64(ps.MetadataLength), ps.Compression, int(ps.CompressionBlockSize))
		metaRaw, err := metaBS.ReadAll()
		if err != nil {
			return nil, err
		}
		md, err = meta.ParseMetadata(name, metaRaw)
		if err != nil {
			return nil, err
		}
	}

	r := &Reader{
		ctx: ctx, src: src, name: name, cfg: cfg,
		ps: ps, footer: footer, meta: md,
		state: stateReady,
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = defaultBatchSize
	}

	reqEnd := cfg.Start + cfg.Length
	for i, si := range footer.Stripes {
		stripeStart := int64(si.Offset)
		stripeEnd := int64(si.End())
		if stripeEnd <= cfg.Start || stripeStart >= reqEnd {
			continue
		}
		if ps.Dialect == meta.DialectORC && i < len(md.StripeStatistics) {
			stats := predicate.StripeStatsByColumn(md.StripeStatistics[i])
			if !predicate.MayMatch(cfg.Predicate, stats) {
				continue
			}
		}
		r.selectedStripes = append(r.selectedStripes, i)
	}
	r.stripePos = -1
	return r, nil
}

// collectColumnIDs walks the subtree rooted at id, returning id plus every
// descendant - the full set of column ids whose ROW_INDEX stream a reader
// for id may need to resolve its own or a child's position vector.
func collectColumnIDs(types meta.TypeTree, id int, out []int) []int {
	out = append(out, id)
	node, ok := types.Node(id)
	if !ok {
		return out
	}
	for _, child := range node.Subtypes {
		out = collectColumnIDs(types, child, out)
	}
	return out
}

// rowGroupPositions is the stream.PositionSource for one row group: it
// looks up each column's own row-index entry by column id, since every
// column - leaf or composite - has an independent position vector.
type rowGroupPositions struct {
	name       string
	rowIndexes map[int]meta.RowIndex
	group      int
}

func (p *rowGroupPositions) Positions(col int) (*stream.PositionReader, error) {
	ri, ok := p.rowIndexes[col]
	if !ok {
		return nil, orcerrors.Corruption(orcerrors.Context{File: p.name, ColumnID: col, HasColumn: true}, "no row index for column")
	}
	if p.group >= len(ri.Entries) {
		return nil, orcerrors.Corruption(orcerrors.Context{File: p.name, ColumnID: col, HasColumn: true}, "row group index out of range for column's row index")
	}
	return stream.NewPositionReader(ri.Entries[p.group].Positions, p.name), nil
}

// nextStripe advances to the next stripe that survives row-group pruning
// (a stripe where every row group is rejected is skipped entirely).
// Returns false once no stripe remains.
func (r *Reader) nextStripe() (bool, error) {
	for {
		r.stripePos++
		if r.stripePos >= len(r.selectedStripes) {
			return false, nil
		}
		idx := r.selectedStripes[r.stripePos]
		si := r.footer.Stripes[idx]
		r.stripeInfo = si

		region := StripeRegion{Offset: int64(si.Offset), IndexLength: int64(si.IndexLength)}
		footerStart := int64(si.Offset + si.IndexLength + si.DataLength)
		footerBS := compress.New(r.ctx, r.src, footerStart, int64(si.FooterLength), r.ps.Compression, int(r.ps.CompressionBlockSize))
		footerRaw, err := footerBS.ReadAll()
		if err != nil {
			return false, err
		}
		sf, err := meta.ParseStripeFooter(r.name, footerRaw, r.footer.Types, r.ps.Dialect)
		if err != nil {
			return false, err
		}
		r.stripeFooter = sf
		r.streams = buildStripeStreams(r.ctx, r.src, region, sf, r.ps.Compression, int(r.ps.CompressionBlockSize))

		var colIDs []int
		for _, top := range r.cfg.IncludedColumns {
			colIDs = collectColumnIDs(r.footer.Types, top, colIDs)
		}
		rowIndexes := make(map[int]meta.RowIndex, len(colIDs))
		for _, col := range colIDs {
			bs, ok := r.streams.get(col, meta.StreamRowIndex)
			if !ok {
				continue
			}
			raw, err := bs.ReadAll()
			if err != nil {
				return false, err
			}
			ri, err := meta.ParseRowIndex(r.name, raw)
			if err != nil {
				return false, err
			}
			rowIndexes[col] = ri
		}
		r.rowIndexes = rowIndexes

		stride := int(r.footer.RowIndexStride)
		var numGroups int
		if stride > 0 {
			numGroups = (int(si.NumRows) + stride - 1) / stride
		} else {
			numGroups = 1
		}
		var groups []int
		for g := 0; g < numGroups; g++ {
			stats := predicate.RowGroupStatsByColumn(rowIndexes, g)
			if predicate.MayMatch(r.cfg.Predicate, stats) {
				groups = append(groups, g)
			}
		}
		if len(groups) == 0 {
			continue
		}

		fileZone := r.cfg.FileZone
		if sf.WriterTimezone != "" {
			if loc, err := time.LoadLocation(sf.WriterTimezone); err == nil {
				fileZone = loc
			}
		}

		readers := make(map[int]column.Reader, len(r.cfg.IncludedColumns))
		for _, top := range r.cfg.IncludedColumns {
			cr, err := buildColumnReader(r.footer.Types, sf.ColumnEncoding, r.streams, top, r.name, fileZone)
			if err != nil {
				return false, err
			}
			readers[top] = cr
		}
		r.readers = readers
		r.groups = groups
		r.groupPos = -1
		r.state = stateInStripe
		return true, nil
	}
}

// nextGroup advances to the next surviving row group in the current
// stripe, seeking every column reader directly to its recorded position.
// Because every surviving group's position vector is read straight from
// the row index, rejected groups in between never need an explicit skip.
func (r *Reader) nextGroup() (bool, error) {
	r.groupPos++
	if r.groupPos >= len(r.groups) {
		r.state = stateReady
		return false, nil
	}
	g := r.groups[r.groupPos]
	ps := &rowGroupPositions{name: r.name, rowIndexes: r.rowIndexes, group: g}
	for _, cr := range r.readers {
		if err := cr.StartRowGroup(ps); err != nil {
			return false, err
		}
	}

	stride := int(r.footer.RowIndexStride)
	rows := stride
	if stride <= 0 {
		rows = int(r.stripeInfo.NumRows)
	} else if remaining := int(r.stripeInfo.NumRows) - g*stride; remaining < rows {
		rows = remaining
	}
	r.groupRows = rows
	r.groupCursor = 0
	r.state = stateInGroup
	return true, nil
}

// NextBatch serves up to maxRows rows (or cfg.BatchSize if maxRows <= 0)
// from the current position, advancing stripes and row groups as needed.
// A Result with Rows == 0 means every selected stripe is exhausted.
func (r *Reader) NextBatch(maxRows int) (Result, error) {
	if maxRows <= 0 {
		maxRows = r.cfg.BatchSize
	}
	for {
		switch r.state {
		case stateClosed:
			return Result{}, orcerrors.ErrClosed
		case stateReady:
			ok, err := r.nextStripe()
			if err != nil {
				r.state = stateClosed
				return Result{}, err
			}
			if !ok {
				return Result{}, nil
			}
		case stateInStripe:
			ok, err := r.nextGroup()
			if err != nil {
				r.state = stateClosed
				return Result{}, err
			}
			if !ok {
				continue
			}
		case stateInGroup:
			n := r.groupRows - r.groupCursor
			if n > maxRows {
				n = maxRows
			}
			out := make(map[int]*column.Batch, len(r.readers))
			for col, cr := range r.readers {
				b := &column.Batch{}
				if _, err := cr.ReadBatch(b, n); err != nil {
					r.state = stateClosed
					return Result{}, err
				}
				out[col] = b
			}
			r.groupCursor += n
			if r.groupCursor >= r.groupRows {
				r.state = stateInStripe
			}
			return Result{Rows: n, Columns: out}, nil
		}
	}
}

// Close releases this reader's resources. It is idempotent and safe to
// call after an error; further NextBatch calls return ErrClosed.
func (r *Reader) Close() error {
	r.state = stateClosed
	r.readers = nil
	r.streams = nil
	r.rowIndexes = nil
	return nil
}
