package stream

import (
	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// fixedBitWidth is the table the v2 encoding uses to pack a bit width into a
// 5-bit code; entries above 24 skip ahead in steps of 2, 8 to keep every
// width that matters (byte multiples, word multiples) reachable in 5 bits.
// This table is part of the wire format and must match byte for byte.
var fixedBitWidth = [32]int{
	1, 2, 3, 4, 5, 6, 7, 8,
	9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24,
	26, 28, 30, 32, 40, 48, 56, 64,
}

func decodeBitWidth(code int) int { return fixedBitWidth[code&0x1f] }

func encodeBitWidthCode(width int) int {
	for code, w := range fixedBitWidth {
		if w >= width {
			return code
		}
	}
	return 31
}

type v2Sub int

const (
	v2ShortRepeat v2Sub = iota
	v2Direct
	v2PatchedBase
	v2Delta
)

// bitReader pulls fixed-width unsigned fields from a continuous, MSB-first
// bitstream sourced directly from a BlockStream. align() discards any
// partially-consumed byte, matching the writer side flushing each packed
// array to a byte boundary.
type bitReader struct {
	bs    *compress.BlockStream
	cur   byte
	nbits int
}

func (br *bitReader) readBits(width int) (uint64, error) {
	var v uint64
	for width > 0 {
		if br.nbits == 0 {
			b, err := br.bs.ReadByte()
			if err != nil {
				return 0, err
			}
			br.cur = b
			br.nbits = 8
		}
		take := width
		if take > br.nbits {
			take = br.nbits
		}
		shift := br.nbits - take
		mask := byte((1 << uint(take)) - 1)
		bitsVal := (br.cur >> uint(shift)) & mask
		v = (v << uint(take)) | uint64(bitsVal)
		br.nbits -= take
		width -= take
	}
	return v, nil
}

func (br *bitReader) align() { br.nbits = 0 }

// IntegerStreamV2 decodes the four v2 sub-encodings: SHORT_REPEAT, DIRECT,
// PATCHED_BASE and DELTA, selected by the top two bits of each run's first
// byte.
type IntegerStreamV2 struct {
	bs     *compress.BlockStream
	name   string
	signed bool

	values []int64 // fully decoded current run
	pos    int
}

func NewIntegerStreamV2(bs *compress.BlockStream, name string, signed bool) *IntegerStreamV2 {
	return &IntegerStreamV2{bs: bs, name: name, signed: signed}
}

func (s *IntegerStreamV2) corrupt(msg string) error {
	return orcerrors.Corruption(orcerrors.Context{File: s.name, StreamKind: "integer_v2"}, msg)
}

func (s *IntegerStreamV2) loadRun() error {
	first, err := s.bs.ReadByte()
	if err != nil {
		return err
	}
	sub := v2Sub(first >> 6)
	switch sub {
	case v2ShortRepeat:
		return s.loadShortRepeat(first)
	case v2Direct:
		return s.loadDirect(first)
	case v2PatchedBase:
		return s.loadPatchedBase(first)
	case v2Delta:
		return s.loadDelta(first)
	default:
		return s.corrupt("unreachable sub-encoding")
	}
}

func (s *IntegerStreamV2) loadShortRepeat(first byte) error {
	width := int((first>>3)&0x7) + 1
	count := int(first&0x7) + 3
	buf, err := s.bs.ReadBytes(width)
	if err != nil {
		return err
	}
	var raw uint64
	for _, b := range buf {
		raw = (raw << 8) | uint64(b)
	}
	val := signedFromRaw(raw, s.signed)
	vals := make([]int64, count)
	for i := range vals {
		vals[i] = val
	}
	s.values = vals
	s.pos = 0
	return nil
}

func (s *IntegerStreamV2) readLength9(first byte) (int, error) {
	low, err := s.bs.ReadByte()
	if err != nil {
		return 0, err
	}
	length := (int(first&0x1) << 8) | int(low)
	return length + 1, nil
}

func (s *IntegerStreamV2) loadDirect(first byte) error {
	widthCode := int(first>>1) & 0x1f
	width := decodeBitWidth(widthCode)
	length, err := s.readLength9(first)
	if err != nil {
		return err
	}
	br := &bitReader{bs: s.bs}
	vals := make([]int64, length)
	for i := 0; i < length; i++ {
		raw, err := br.readBits(width)
		if err != nil {
			return err
		}
		vals[i] = signedFromRaw(raw, s.signed)
	}
	br.align()
	s.values = vals
	s.pos = 0
	return nil
}

func (s *IntegerStreamV2) loadPatchedBase(first byte) error {
	fbWidthCode := int(first>>1) & 0x1f
	fb := decodeBitWidth(fbWidthCode)
	length, err := s.readLength9(first)
	if err != nil {
		return err
	}
	b2, err := s.bs.ReadByte()
	if err != nil {
		return err
	}
	baseBytes := int(b2>>5) + 1
	patchWidth := decodeBitWidth(int(b2 & 0x1f))

	b3, err := s.bs.ReadByte()
	if err != nil {
		return err
	}
	patchGapWidth := int(b3>>5) + 1
	patchListLen := int(b3 & 0x1f)

	baseBuf, err := s.bs.ReadBytes(baseBytes)
	if err != nil {
		return err
	}
	negative := baseBuf[0]&0x80 != 0
	baseBuf[0] &^= 0x80
	var baseMag uint64
	for _, bb := range baseBuf {
		baseMag = (baseMag << 8) | uint64(bb)
	}
	base := int64(baseMag)
	if negative {
		base = -base
	}

	br := &bitReader{bs: s.bs}
	data := make([]uint64, length)
	for i := 0; i < length; i++ {
		v, err := br.readBits(fb)
		if err != nil {
			return err
		}
		data[i] = v
	}
	br.align()

	if patchGapWidth+patchWidth > 0 && patchListLen > 0 {
		idx := -1
		for i := 0; i < patchListLen; i++ {
			entry, err := br.readBits(patchGapWidth + patchWidth)
			if err != nil {
				return err
			}
			gap := int(entry >> uint(patchWidth))
			patchVal := entry & ((uint64(1) << uint(patchWidth)) - 1)
			idx += gap + 1
			if idx < 0 || idx >= length {
				return s.corrupt("patch index out of range")
			}
			data[idx] |= patchVal << uint(fb)
		}
		br.align()
	}

	vals := make([]int64, length)
	for i, d := range data {
		vals[i] = base + int64(d)
	}
	s.values = vals
	s.pos = 0
	return nil
}

func (s *IntegerStreamV2) loadDelta(first byte) error {
	widthCode := int(first>>1) & 0x1f
	length, err := s.readLength9(first)
	if err != nil {
		return err
	}
	baseRaw, err := readVarint(s.bs, s.name)
	if err != nil {
		return err
	}
	base := signedFromRaw(baseRaw, s.signed)

	vals := make([]int64, length)
	vals[0] = base
	if length == 1 {
		s.values = vals
		s.pos = 0
		return nil
	}

	deltaRaw, err := readVarint(s.bs, s.name)
	if err != nil {
		return err
	}
	delta0 := zigzagDecode(deltaRaw)
	vals[1] = base + delta0
	if length == 2 {
		s.values = vals
		s.pos = 0
		return nil
	}

	deltaWidth := decodeBitWidth(widthCode)
	increasing := delta0 >= 0
	if widthCode == 0 {
		// fixed delta: every remaining step repeats delta0
		for i := 2; i < length; i++ {
			vals[i] = vals[i-1] + delta0
		}
		s.values = vals
		s.pos = 0
		return nil
	}
	br := &bitReader{bs: s.bs}
	for i := 2; i < length; i++ {
		mag, err := br.readBits(deltaWidth)
		if err != nil {
			return err
		}
		if increasing {
			vals[i] = vals[i-1] + int64(mag)
		} else {
			vals[i] = vals[i-1] - int64(mag)
		}
	}
	br.align()
	s.values = vals
	s.pos = 0
	return nil
}

// ReadValue returns the next decoded integer.
func (s *IntegerStreamV2) ReadValue() (int64, error) {
	if s.pos >= len(s.values) {
		if err := s.loadRun(); err != nil {
			return 0, err
		}
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// ReadValues returns the next n decoded integers.
func (s *IntegerStreamV2) ReadValues(n int) ([]int64, error) {
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

// Skip advances n decoded values; each straddled run is fully decoded since
// the packed sub-encodings have no cheaper skip path.
func (s *IntegerStreamV2) Skip(n int) error {
	for n > 0 {
		if s.pos >= len(s.values) {
			if err := s.loadRun(); err != nil {
				return err
			}
		}
		avail := len(s.values) - s.pos
		if avail <= n {
			n -= avail
			s.pos = len(s.values)
			continue
		}
		s.pos += n
		n = 0
	}
	return nil
}

// Seek resumes decoding at a row-group boundary: (chunk offset, byte offset
// within chunk, value offset within the run straddling that boundary). The
// run straddling the boundary is re-decoded in full and then fast-forwarded.
func (s *IntegerStreamV2) Seek(pr *PositionReader) error {
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
	s.values = nil
	s.pos = 0
	if valOff == 0 {
		return nil
	}
	if err := s.loadRun(); err != nil {
		return err
	}
	if int(valOff) > len(s.values) {
		return s.corrupt("value offset beyond run length")
	}
	s.pos = int(valOff)
	return nil
}
