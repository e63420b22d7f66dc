package column

import (
	"context"
	"testing"

	"github.com/omyshell/presto/src/orc/compress"
	"github.com/omyshell/presto/src/orc/stream"
)

// fakeSource is an in-memory source.Source, enough to drive a BlockStream
// in KindNone mode for hand-built stream fixtures.
type fakeSource struct{ data []byte }

func (f *fakeSource) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	return f.data[offset : offset+length], nil
}
func (f *fakeSource) Size() int64  { return int64(len(f.data)) }
func (f *fakeSource) Name() string { return "fixture" }
func (f *fakeSource) Close() error { return nil }

func blockStreamOf(data []byte) *compress.BlockStream {
	src := &fakeSource{data: data}
	return compress.New(context.Background(), src, 0, int64(len(data)), compress.KindNone, 0)
}

func zigzagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// v1Literal encodes vals as a single IntegerStreamV1 literal run (1..128
// values), the same wire shape integer_v1.go's loadRun decodes.
func v1Literal(vals []int64, signed bool) []byte {
	if len(vals) < 1 || len(vals) > 128 {
		panic("literal run length out of range")
	}
	buf := []byte{byte(int8(-len(vals)))}
	for _, v := range vals {
		raw := uint64(v)
		if signed {
			raw = zigzagEncode(v)
		}
		buf = appendVarint(buf, raw)
	}
	return buf
}

// presentBits packs up to 8 present/absent flags (true = present, i.e. a
// non-null row) into the single-byte repeat-run shape BooleanStream/
// ByteStream decode (see TestBooleanStreamBits in src/orc/stream).
func presentBits(present []bool) []byte {
	if len(present) > 8 {
		panic("presentBits only packs one byte's worth of rows")
	}
	var b byte
	for i, p := range present {
		if p {
			b |= 1 << (7 - i)
		}
	}
	return []byte{0xff, b}
}

func longReaderV1(col int, vals []int64) *LongReader {
	data := stream.NewIntegerStreamV1(blockStreamOf(v1Literal(vals, true)), "fixture", true)
	return NewLongReader(col, nil, data)
}

// TestStructReaderRoundTrip exercises the exact path the reported panic
// came from: a StructReader fed a fresh *Batch (as reader.NextBatch always
// hands column readers) with a nil NullMask, nesting a ListReader as one of
// its fields.
func TestStructReaderRoundTrip(t *testing.T) {
	fieldA := longReaderV1(1, []int64{10, 20, 30})

	lengths := stream.NewIntegerStreamV1(blockStreamOf(v1Literal([]int64{1, 0, 2}, false)), "fixture", false)
	listChild := longReaderV1(3, []int64{100, 200, 300})
	fieldB := NewListReader(2, nil, lengths, listChild)

	sr := NewStructReader(0, nil, []Reader{fieldA, fieldB})

	out := &Batch{}
	n, err := sr.ReadBatch(out, 3)
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	if n != 3 || out.Count != 3 {
		t.Fatalf("got n=%d Count=%d, want 3/3", n, out.Count)
	}
	for i, want := range []int64{10, 20, 30} {
		if out.StructFields[0].Longs[i] != want {
			t.Fatalf("field a[%d]: got %d, want %d", i, out.StructFields[0].Longs[i], want)
		}
	}
	wantLengths := []int{1, 0, 2}
	for i, want := range wantLengths {
		if out.StructFields[1].ListLengths[i] != want {
			t.Fatalf("field b length[%d]: got %d, want %d", i, out.StructFields[1].ListLengths[i], want)
		}
	}
	wantElems := []int64{100, 200, 300}
	for i, want := range wantElems {
		if out.StructFields[1].ListChild.Longs[i] != want {
			t.Fatalf("field b element[%d]: got %d, want %d", i, out.StructFields[1].ListChild.Longs[i], want)
		}
	}
}

// TestStructReaderRoundTripMultipleBatches calls ReadBatch twice, each time
// with a brand-new *Batch, mirroring reader.NextBatch's per-call allocation
// - the scenario that used to panic on the very first call because the
// PRESENT fill ran before the batch's NullMask was sized.
func TestStructReaderRoundTripMultipleBatches(t *testing.T) {
	fieldA := longReaderV1(1, []int64{1, 2, 3, 4})
	sr := NewStructReader(0, nil, []Reader{fieldA})

	for batch := 0; batch < 2; batch++ {
		out := &Batch{}
		if _, err := sr.ReadBatch(out, 2); err != nil {
			t.Fatalf("batch %d: ReadBatch: %v", batch, err)
		}
		if len(out.NullMask) != 2 {
			t.Fatalf("batch %d: NullMask len %d, want 2", batch, len(out.NullMask))
		}
	}
}

// TestListReaderNullRow exercises a list column with its own PRESENT
// stream, confirming a null row contributes zero elements and is skipped
// in the lengths stream.
func TestListReaderNullRow(t *testing.T) {
	pres := stream.NewBooleanStream(stream.NewByteStream(blockStreamOf(presentBits([]bool{true, false, true, true})), "fixture"))
	lengths := stream.NewIntegerStreamV1(blockStreamOf(v1Literal([]int64{2, 0, 1}, false)), "fixture", false)
	child := longReaderV1(1, []int64{1, 2, 3})

	lr := NewListReader(0, pres, lengths, child)
	out := &Batch{}
	if _, err := lr.ReadBatch(out, 4); err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	wantNull := []bool{false, true, false, false}
	for i, want := range wantNull {
		if out.NullMask[i] != want {
			t.Fatalf("NullMask[%d]: got %v, want %v", i, out.NullMask[i], want)
		}
	}
	wantLengths := []int{2, 0, 0, 1}
	for i, want := range wantLengths {
		if out.ListLengths[i] != want {
			t.Fatalf("ListLengths[%d]: got %d, want %d", i, out.ListLengths[i], want)
		}
	}
	wantElems := []int64{1, 2, 3}
	for i, want := range wantElems {
		if out.ListChild.Longs[i] != want {
			t.Fatalf("element[%d]: got %d, want %d", i, out.ListChild.Longs[i], want)
		}
	}
}

// TestMapReaderRoundTrip exercises MapReader's two-children (keys, values)
// fan-out the same way TestListReaderNullRow exercises ListReader's one.
func TestMapReaderRoundTrip(t *testing.T) {
	lengths := stream.NewIntegerStreamV1(blockStreamOf(v1Literal([]int64{2, 1}, false)), "fixture", false)
	keys := longReaderV1(1, []int64{1, 2, 3})
	values := longReaderV1(2, []int64{100, 200, 300})

	mr := NewMapReader(0, nil, lengths, keys, values)
	out := &Batch{}
	if _, err := mr.ReadBatch(out, 2); err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	wantLengths := []int{2, 1}
	for i, want := range wantLengths {
		if out.MapLengths[i] != want {
			t.Fatalf("MapLengths[%d]: got %d, want %d", i, out.MapLengths[i], want)
		}
	}
	wantKeys := []int64{1, 2, 3}
	for i, want := range wantKeys {
		if out.MapKeys.Longs[i] != want {
			t.Fatalf("key[%d]: got %d, want %d", i, out.MapKeys.Longs[i], want)
		}
	}
	wantValues := []int64{100, 200, 300}
	for i, want := range wantValues {
		if out.MapValues.Longs[i] != want {
			t.Fatalf("value[%d]: got %d, want %d", i, out.MapValues.Longs[i], want)
		}
	}
}

// TestUnionReaderRoundTrip confirms rows are routed to the branch their tag
// selects and each branch only sees the rows that selected it.
func TestUnionReaderRoundTrip(t *testing.T) {
	// control byte 0 => literal run of 3 bytes: the tag sequence itself.
	tags := stream.NewByteStream(blockStreamOf([]byte{0, 0, 1, 0}), "fixture")
	branch0 := longReaderV1(1, []int64{10, 40})
	branch1 := longReaderV1(2, []int64{30})

	ur := NewUnionReader(0, nil, tags, []Reader{branch0, branch1})
	out := &Batch{}
	if _, err := ur.ReadBatch(out, 3); err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	wantTags := []byte{0, 1, 0}
	for i, want := range wantTags {
		if out.UnionTags[i] != want {
			t.Fatalf("tag[%d]: got %d, want %d", i, out.UnionTags[i], want)
		}
	}
	if out.UnionChildren[0].Longs[0] != 10 || out.UnionChildren[0].Longs[1] != 40 {
		t.Fatalf("branch 0: got %v, want [10 40]", out.UnionChildren[0].Longs[:2])
	}
	if out.UnionChildren[1].Longs[0] != 30 {
		t.Fatalf("branch 1: got %v, want [30]", out.UnionChildren[1].Longs[:1])
	}
}
