// Package column implements one reader per ORC/DWRF type family: each
// consumes a PRESENT mask plus the primitive streams its encoding requires
// and produces Batch values in the executor-facing column representation.
package column

// Batch is one column's materialized slice of rows: a nullability mask plus
// exactly one populated value representation, selected by the reader that
// filled it. Buffers are reused across ReadBatch calls and grow
// monotonically to the largest requested size, never shrinking, so the
// reader never allocates per row once warmed up.
type Batch struct {
	Count    int
	NullMask []bool // len >= Count; true marks a null row

	Longs   []int64   // BOOLEAN/BYTE/SHORT/INT/LONG/DATE
	Doubles []float64 // FLOAT/DOUBLE
	Bytes   [][]byte  // STRING/VARCHAR/CHAR/BINARY
	Nanos   []int64   // TIMESTAMP: paired with Longs (seconds)

	// Composite types nest child batches; the parent's NullMask/Count still
	// describe the parent rows.
	ListLengths   []int
	ListChild     *Batch
	MapLengths    []int
	MapKeys       *Batch
	MapValues     *Batch
	UnionTags     []byte
	UnionChildren []*Batch
	StructFields  []*Batch
}

// ensureCap sizes NullMask to n, reallocating only when its capacity is
// below n; the typed ensure* helpers below do the same for the value
// slices after calling it, preserving the
// monotonic-growth, no-per-row-allocation property required of column
// readers.
func (b *Batch) ensureCap(n int) {
	if cap(b.NullMask) < n {
		b.NullMask = make([]bool, n)
	}
	b.NullMask = b.NullMask[:n]
}

func (b *Batch) ensureLongs(n int) {
	b.ensureCap(n)
	if cap(b.Longs) < n {
		b.Longs = make([]int64, n)
	}
	b.Longs = b.Longs[:n]
}

func (b *Batch) ensureDoubles(n int) {
	b.ensureCap(n)
	if cap(b.Doubles) < n {
		b.Doubles = make([]float64, n)
	}
	b.Doubles = b.Doubles[:n]
}

func (b *Batch) ensureBytes(n int) {
	b.ensureCap(n)
	if cap(b.Bytes) < n {
		b.Bytes = make([][]byte, n)
	}
	b.Bytes = b.Bytes[:n]
}

func (b *Batch) ensureTimestamp(n int) {
	b.ensureLongs(n)
	if cap(b.Nanos) < n {
		b.Nanos = make([]int64, n)
	}
	b.Nanos = b.Nanos[:n]
}
