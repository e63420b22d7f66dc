package stream

import (
	"context"
	"testing"

	"github.com/omyshell/presto/src/orc/compress"
)

type fakeSource struct {
	data []byte
}

func (f *fakeSource) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	return f.data[offset : offset+length], nil
}
func (f *fakeSource) Size() int64  { return int64(len(f.data)) }
func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) Close() error { return nil }

func blockStreamOf(data []byte) *compress.BlockStream {
	src := &fakeSource{data: data}
	return compress.New(context.Background(), src, 0, int64(len(data)), compress.KindNone, 0)
}

func TestByteStreamLiteralRun(t *testing.T) {
	// control byte 2 => literal run of 5 bytes
	data := []byte{2, 10, 20, 30, 40, 50}
	s := NewByteStream(blockStreamOf(data), "t")
	got, err := s.ReadBytes(5)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 30, 40, 50}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestByteStreamRepeatRun(t *testing.T) {
	// control byte -3 (0xfd) => repeat run of 3 copies of the following byte
	data := []byte{0xfd, 7}
	s := NewByteStream(blockStreamOf(data), "t")
	for i := 0; i < 3; i++ {
		b, err := s.ReadByte()
		if err != nil {
			t.Fatal(err)
		}
		if b != 7 {
			t.Fatalf("rep %d: got %d, want 7", i, b)
		}
	}
}

func TestByteStreamSkipAcrossRuns(t *testing.T) {
	// literal run of 3, then a repeat run of 4 copies of 99
	data := []byte{0, 1, 2, 3, 0xfc, 99}
	s := NewByteStream(blockStreamOf(data), "t")
	if err := s.Skip(4); err != nil {
		t.Fatal(err)
	}
	b, err := s.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 99 {
		t.Fatalf("got %d, want 99", b)
	}
}

func TestBooleanStreamBits(t *testing.T) {
	// repeat run of length 1 (control 0xff) carrying the single byte
	// 0b10110000 => true,false,true,true,false,false,false,false
	data := []byte{0xff, 0b10110000}
	s := NewBooleanStream(NewByteStream(blockStreamOf(data), "t"))
	want := []bool{true, false, true, true, false, false, false, false}
	for i, w := range want {
		b, err := s.NextBit()
		if err != nil {
			t.Fatal(err)
		}
		if b != w {
			t.Fatalf("bit %d: got %v, want %v", i, b, w)
		}
	}
}

func TestBooleanStreamFillWithNullMask(t *testing.T) {
	data := []byte{0xff, 0b11000000}
	s := NewBooleanStream(NewByteStream(blockStreamOf(data), "t"))
	isNull := make([]bool, 4)
	if err := s.FillWithNullMask(4, isNull); err != nil {
		t.Fatal(err)
	}
	want := []bool{false, false, true, true}
	for i, w := range want {
		if isNull[i] != w {
			t.Fatalf("isNull[%d]: got %v, want %v", i, isNull[i], w)
		}
	}
}

func TestBooleanStreamCountSetBits(t *testing.T) {
	data := []byte{0xff, 0b10110000}
	s := NewBooleanStream(NewByteStream(blockStreamOf(data), "t"))
	n, err := s.CountSetBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
}
