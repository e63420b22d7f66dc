package compress

import (
	"bytes"
	"compress/flate"
	"context"
	"io"
	"testing"

	"github.com/golang/snappy"
)

type memSource struct {
	name string
	data []byte
}

func (m *memSource) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	if offset < 0 || offset+length > int64(len(m.data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return m.data[offset : offset+length], nil
}
func (m *memSource) Size() int64   { return int64(len(m.data)) }
func (m *memSource) Name() string  { return m.name }
func (m *memSource) Close() error  { return nil }

func chunkHeader(length int, original bool) []byte {
	h := uint32(length) << 1
	if original {
		h |= 1
	}
	return []byte{byte(h), byte(h >> 8), byte(h >> 16)}
}

func TestBlockStreamUncompressed(t *testing.T) {
	want := []byte("hello, orc reader")
	src := &memSource{name: "t", data: want}
	bs := New(context.Background(), src, 0, int64(len(want)), KindNone, 0)
	got, err := bs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBlockStreamOriginalChunk(t *testing.T) {
	payload := []byte("raw passthrough chunk")
	var buf bytes.Buffer
	buf.Write(chunkHeader(len(payload), true))
	buf.Write(payload)
	src := &memSource{name: "t", data: buf.Bytes()}
	bs := New(context.Background(), src, 0, int64(buf.Len()), KindZlib, 0)
	got, err := bs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestBlockStreamZlibChunk(t *testing.T) {
	payload := []byte("a chunk compressed with deflate, repeated repeated repeated")
	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.Write(chunkHeader(compressed.Len(), false))
	buf.Write(compressed.Bytes())
	src := &memSource{name: "t", data: buf.Bytes()}
	bs := New(context.Background(), src, 0, int64(buf.Len()), KindZlib, 0)
	got, err := bs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestBlockStreamSnappyChunk(t *testing.T) {
	payload := []byte("a chunk compressed with snappy, repeated repeated repeated")
	compressed := snappy.Encode(nil, payload)

	var buf bytes.Buffer
	buf.Write(chunkHeader(len(compressed), false))
	buf.Write(compressed)
	src := &memSource{name: "t", data: buf.Bytes()}
	bs := New(context.Background(), src, 0, int64(buf.Len()), KindSnappy, 0)
	got, err := bs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestBlockStreamSkipAndPosition(t *testing.T) {
	want := []byte("0123456789abcdefghij")
	src := &memSource{name: "t", data: want}
	bs := New(context.Background(), src, 0, int64(len(want)), KindNone, 0)

	if err := bs.Skip(5); err != nil {
		t.Fatal(err)
	}
	pos := bs.Position()
	b, err := bs.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != want[5] {
		t.Fatalf("got %c, want %c", b, want[5])
	}

	// rewind past the read byte via SkipTo and confirm it's replayed
	if err := bs.SkipTo(pos); err != nil {
		t.Fatal(err)
	}
	b2, err := bs.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b2 != want[5] {
		t.Fatalf("after SkipTo: got %c, want %c", b2, want[5])
	}
}

func TestBlockStreamMultipleChunks(t *testing.T) {
	first := []byte("first-chunk-original")
	second := []byte("second-chunk-original")
	var buf bytes.Buffer
	buf.Write(chunkHeader(len(first), true))
	buf.Write(first)
	buf.Write(chunkHeader(len(second), true))
	buf.Write(second)

	src := &memSource{name: "t", data: buf.Bytes()}
	bs := New(context.Background(), src, 0, int64(buf.Len()), KindZlib, 0)
	got, err := bs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]byte{}, first...), second...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}
