package stream

import (
	"github.com/omyshell/presto/src/orc/compress"
)

// StringStream decodes the DIRECT string/binary encoding: a LENGTH integer
// stream (unsigned, v1 or v2 depending on the column's chosen encoding) and
// a DATA stream of the concatenated raw bytes. Column readers reuse this for
// the dictionary blob too - a dictionary is just DIRECT-encoded entries read
// once at stripe start.
type StringStream struct {
	lengths IntegerDecoder
	data    *compress.BlockStream
}

func NewStringStream(lengths IntegerDecoder, data *compress.BlockStream) *StringStream {
	return &StringStream{lengths: lengths, data: data}
}

// ReadValue returns the next decoded value in a newly allocated slice
// (BlockStream.ReadBytes copies out of the chunk buffer).
func (s *StringStream) ReadValue() ([]byte, error) {
	n, err := s.lengths.ReadValue()
	if err != nil {
		return nil, err
	}
	return s.data.ReadBytes(int(n))
}

// ReadValues decodes n values, each copied into its own buffer.
func (s *StringStream) ReadValues(n int) ([][]byte, error) {
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		v, err := s.ReadValue()
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		out[i] = cp
	}
	return out, nil
}

// Skip advances n values: the lengths must be read (there is no way to know
// how many data bytes to skip otherwise), but the data bytes themselves are
// skipped in bulk.
func (s *StringStream) Skip(n int) error {
	total := 0
	for i := 0; i < n; i++ {
		l, err := s.lengths.ReadValue()
		if err != nil {
			return err
		}
		total += int(l)
	}
	if total == 0 {
		return nil
	}
	return s.data.Skip(total)
}

// Seek resumes decoding at a row-group boundary: the lengths stream's own
// position entries, followed by the data stream's (chunk offset, byte
// offset) pair.
func (s *StringStream) Seek(pr *PositionReader) error {
	if err := s.lengths.Seek(pr); err != nil {
		return err
	}
	chunkOff, err := pr.Next()
	if err != nil {
		return err
	}
	byteOff, err := pr.Next()
	if err != nil {
		return err
	}
	return s.data.SkipTo(compress.Position{ChunkOffset: int64(chunkOff), UncompressedByte: int64(byteOff)})
}

// ReadDictionary reads all dictionarySize entries from the stream in one
// pass, copying each into its own buffer - used at stripe start to
// materialise a DICTIONARY-encoded column's dictionary.
func ReadDictionary(lengths IntegerDecoder, data *compress.BlockStream, dictionarySize int) ([][]byte, error) {
	s := NewStringStream(lengths, data)
	return s.ReadValues(dictionarySize)
}
