package stream

import (
	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// IntegerDecoder is the shared surface both RLE versions present to column
// readers: pull one value, pull n values, skip n values, or resume at a
// row-group boundary.
type IntegerDecoder interface {
	ReadValue() (int64, error)
	ReadValues(n int) ([]int64, error)
	Skip(n int) error
	Seek(pr *PositionReader) error
}

// IntegerStreamV1 decodes the original RLE integer encoding: runs of at
// least 3 identical-delta values (a base varint plus a one-byte signed
// delta) interleaved with literal lists of 1..128 varints.
type IntegerStreamV1 struct {
	bs     *compress.BlockStream
	name   string
	signed bool

	runRemaining int
	isRun        bool

	// run mode
	base  int64
	delta int64
	idx   int

	// literal mode
	literalBuf []int64
	literalPos int
}

func NewIntegerStreamV1(bs *compress.BlockStream, name string, signed bool) *IntegerStreamV1 {
	return &IntegerStreamV1{bs: bs, name: name, signed: signed}
}

func (s *IntegerStreamV1) corrupt(msg string) error {
	return orcerrors.Corruption(orcerrors.Context{File: s.name, StreamKind: "integer_v1"}, msg)
}

func (s *IntegerStreamV1) loadRun() error {
	b, err := s.bs.ReadByte()
	if err != nil {
		return err
	}
	control := int8(b)
	if control >= 0 {
		length := int(control) + 3
		deltaByte, err := s.bs.ReadByte()
		if err != nil {
			return err
		}
		baseRaw, err := readVarint(s.bs, s.name)
		if err != nil {
			return err
		}
		s.isRun = true
		s.base = signedFromRaw(baseRaw, s.signed)
		s.delta = int64(int8(deltaByte))
		s.idx = 0
		s.runRemaining = length
		return nil
	}
	length := -int(control)
	if length < 1 || length > 128 {
		return s.corrupt("invalid literal run length")
	}
	vals := make([]int64, length)
	for i := 0; i < length; i++ {
		raw, err := readVarint(s.bs, s.name)
		if err != nil {
			return err
		}
		vals[i] = signedFromRaw(raw, s.signed)
	}
	s.isRun = false
	s.literalBuf = vals
	s.literalPos = 0
	s.runRemaining = length
	return nil
}

// ReadValue returns the next decoded integer.
func (s *IntegerStreamV1) ReadValue() (int64, error) {
	if s.runRemaining == 0 {
		if err := s.loadRun(); err != nil {
			return 0, err
		}
	}
	var v int64
	if s.isRun {
		v = s.base + int64(s.idx)*s.delta
		s.idx++
	} else {
		v = s.literalBuf[s.literalPos]
		s.literalPos++
	}
	s.runRemaining--
	return v, nil
}

// ReadValues returns the next n decoded integers.
func (s *IntegerStreamV1) ReadValues(n int) ([]int64, error) {
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		v, err := s.ReadValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Skip advances n decoded values.
func (s *IntegerStreamV1) Skip(n int) error {
	for n > 0 {
		if s.runRemaining == 0 {
			if err := s.loadRun(); err != nil {
				return err
			}
		}
		if s.runRemaining <= n {
			n -= s.runRemaining
			s.runRemaining = 0
			continue
		}
		if s.isRun {
			s.idx += n
		} else {
			s.literalPos += n
		}
		s.runRemaining -= n
		n = 0
	}
	return nil
}

// Seek resumes decoding at a row-group boundary: (chunk offset, byte offset
// within chunk, value offset within the run straddling that boundary).
func (s *IntegerStreamV1) Seek(pr *PositionReader) error {
	chunkOff, err := pr.Next()
	if err != nil {
		return err
	}
	byteOff, err := pr.Next()
	if err != nil {
		return err
	}
	valOff, err := pr.Next()
	if err != nil {
		return err
	}
	if err := s.bs.SkipTo(compress.Position{ChunkOffset: int64(chunkOff), UncompressedByte: int64(byteOff)}); err != nil {
		return err
	}
	s.runRemaining = 0
	if valOff == 0 {
		return nil
	}
	if err := s.loadRun(); err != nil {
		return err
	}
	if int(valOff) > s.runRemaining {
		return s.corrupt("value offset beyond run length")
	}
	if s.isRun {
		s.idx = int(valOff)
	} else {
		s.literalPos = int(valOff)
	}
	s.runRemaining -= int(valOff)
	return nil
}
