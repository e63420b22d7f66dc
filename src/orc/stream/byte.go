package stream

import (
	"io"

	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// ByteStream decodes the ORC run-length byte encoding: a signed control
// byte selects either a literal run (control>=0, length control+3) or a
// repeated byte (control<0, length |control|, 1..128).
// BooleanStream (PRESENT, BOOLEAN data) and the plain byte/tag streams
// (BYTE data, union tags) are all built on top of this.
type ByteStream struct {
	bs   *compress.BlockStream
	name string

	runRemaining int
	literal      bool
	literalBuf   []byte
	literalPos   int
	repeatVal    byte
}

func NewByteStream(bs *compress.BlockStream, name string) *ByteStream {
	return &ByteStream{bs: bs, name: name}
}

func (s *ByteStream) corrupt(msg string) error {
	return orcerrors.Corruption(orcerrors.Context{File: s.name, StreamKind: "byte"}, msg)
}

func (s *ByteStream) loadRun() error {
	b, err := s.bs.ReadByte()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}
	control := int8(b)
	if control >= 0 {
		n := int(control) + 3
		buf, err := s.bs.ReadBytes(n)
		if err != nil {
			return err
		}
		s.literal = true
		s.literalBuf = buf
		s.literalPos = 0
		s.runRemaining = n
		return nil
	}
	n := -int(control)
	if n < 1 || n > 128 {
		return s.corrupt("invalid repeat run length")
	}
	v, err := s.bs.ReadByte()
	if err != nil {
		return err
	}
	s.literal = false
	s.repeatVal = v
	s.runRemaining = n
	return nil
}

// ReadByte returns the next decoded byte.
func (s *ByteStream) ReadByte() (byte, error) {
	if s.runRemaining == 0 {
		if err := s.loadRun(); err != nil {
			return 0, err
		}
	}
	var v byte
	if s.literal {
		v = s.literalBuf[s.literalPos]
		s.literalPos++
	} else {
		v = s.repeatVal
	}
	s.runRemaining--
	return v, nil
}

// ReadBytes fills out with n decoded bytes.
func (s *ByteStream) ReadBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := s.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Skip advances n decoded bytes without materialising them value by value;
// it consumes whole runs at a time, only touching per-value state for the
// (at most one) run a skip lands in the middle of.
func (s *ByteStream) Skip(n int) error {
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
		if s.literal {
			s.literalPos += n
		}
		s.runRemaining -= n
		n = 0
	}
	return nil
}

// EndOfStream reports whether there is nothing left to decode.
func (s *ByteStream) EndOfStream() bool {
	return s.runRemaining == 0 && s.bs.EndOfStream()
}

// Seek resumes decoding at a row-group boundary: (chunk offset, byte offset
// within chunk, value offset within the run straddling that boundary).
func (s *ByteStream) Seek(pr *PositionReader) error {
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
	return s.seekRaw(chunkOff, byteOff, valOff)
}

// seekRaw is Seek with its three position entries already extracted -
// BooleanStream uses it directly since it needs a fourth (bit) entry from
// the same position vector, consumed after this one.
func (s *ByteStream) seekRaw(chunkOff, byteOff, valOff uint64) error {
	if err := s.bs.SkipTo(compress.Position{ChunkOffset: int64(chunkOff), UncompressedByte: int64(byteOff)}); err != nil {
		return err
	}
	s.runRemaining = 0
	s.literal = false
	if valOff == 0 {
		return nil
	}
	if err := s.loadRun(); err != nil {
		return err
	}
	if int(valOff) > s.runRemaining {
		return s.corrupt("value offset beyond run length")
	}
	if s.literal {
		s.literalPos = int(valOff)
	}
	s.runRemaining -= int(valOff)
	return nil
}
