package column

import "github.com/omyshell/presto/src/orc/stream"

// DoubleReader decodes FLOAT/DOUBLE columns: PRESENT plus a raw
// fixed-width IEEE-754 stream. Float values are widened to float64 in the
// batch representation; the on-wire width is tracked separately so Skip
// advances the right number of bytes.
type DoubleReader struct {
	col     int
	pres    present
	floats  *stream.FloatStream
	doubles *stream.DoubleStream
}

func NewFloatReader(col int, presentStream *stream.BooleanStream, data *stream.FloatStream) *DoubleReader {
	return &DoubleReader{col: col, pres: present{stream: presentStream}, floats: data}
}

func NewDoubleReader(col int, presentStream *stream.BooleanStream, data *stream.DoubleStream) *DoubleReader {
	return &DoubleReader{col: col, pres: present{stream: presentStream}, doubles: data}
}

func (r *DoubleReader) StartRowGroup(ps stream.PositionSource) error {
	positions, err := ps.Positions(r.col)
	if err != nil {
		return err
	}
	if err := r.pres.seek(positions); err != nil {
		return err
	}
	if r.floats != nil {
		return r.floats.Seek(positions)
	}
	return r.doubles.Seek(positions)
}

func (r *DoubleReader) ReadBatch(out *Batch, size int) (int, error) {
	out.ensureDoubles(size)
	if _, err := r.pres.fill(size, out.NullMask); err != nil {
		return 0, err
	}
	for i := 0; i < size; i++ {
		if out.NullMask[i] {
			continue
		}
		if r.floats != nil {
			v, err := r.floats.ReadValue()
			if err != nil {
				return 0, err
			}
			out.Doubles[i] = float64(v)
		} else {
			v, err := r.doubles.ReadValue()
			if err != nil {
				return 0, err
			}
			out.Doubles[i] = v
		}
	}
	out.Count = size
	return size, nil
}

func (r *DoubleReader) Skip(n int) error {
	nonNull, err := r.pres.skip(n)
	if err != nil {
		return err
	}
	if r.floats != nil {
		return r.floats.Skip(nonNull)
	}
	return r.doubles.Skip(nonNull)
}
