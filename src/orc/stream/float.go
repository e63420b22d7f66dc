package stream

import (
	"math"

	"github.com/omyshell/presto/src/orc/compress"
)

// FloatStream decodes a raw little-endian IEEE-754 single-precision stream.
type FloatStream struct {
	bs   *compress.BlockStream
	name string
}

func NewFloatStream(bs *compress.BlockStream, name string) *FloatStream {
	return &FloatStream{bs: bs, name: name}
}

func (s *FloatStream) ReadValue() (float32, error) {
	buf, err := s.bs.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return math.Float32frombits(bits), nil
}

func (s *FloatStream) ReadValues(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := s.ReadValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *FloatStream) Skip(n int) error { return s.bs.Skip(n * 4) }

func (s *FloatStream) Seek(pr *PositionReader) error {
	chunkOff, err := pr.Next()
	if err != nil {
		return err
	}
	byteOff, err := pr.Next()
	if err != nil {
		return err
	}
	return s.bs.SkipTo(compress.Position{ChunkOffset: int64(chunkOff), UncompressedByte: int64(byteOff)})
}

// DoubleStream decodes a raw little-endian IEEE-754 double-precision stream.
type DoubleStream struct {
	bs   *compress.BlockStream
	name string
}

func NewDoubleStream(bs *compress.BlockStream, name string) *DoubleStream {
	return &DoubleStream{bs: bs, name: name}
}

func (s *DoubleStream) ReadValue() (float64, error) {
	buf, err := s.bs.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for i := 7; i >= 0; i-- {
		bits = (bits << 8) | uint64(buf[i])
	}
	return math.Float64frombits(bits), nil
}

func (s *DoubleStream) ReadValues(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := s.ReadValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *DoubleStream) Skip(n int) error { return s.bs.Skip(n * 8) }

func (s *DoubleStream) Seek(pr *PositionReader) error {
	chunkOff, err := pr.Next()
	if err != nil {
		return err
	}
	byteOff, err := pr.Next()
	if err != nil {
		return err
	}
	return s.bs.SkipTo(compress.Position{ChunkOffset: int64(chunkOff), UncompressedByte: int64(byteOff)})
}
