package stream

import (
	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// readVarint reads a base-128 varint directly off a BlockStream: each byte's
// low 7 bits carry data, the high bit marks continuation - the same framing
// protobuf uses.
func readVarint(bs *compress.BlockStream, name string) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := bs.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 63 {
			return 0, orcerrors.Malformed(orcerrors.Context{File: name}, "varint too long", nil)
		}
	}
	return result, nil
}

func zigzagDecode(n uint64) int64 {
	return int64(n>>1) ^ -(int64(n & 1))
}

func signedFromRaw(raw uint64, signed bool) int64 {
	if signed {
		return zigzagDecode(raw)
	}
	return int64(raw)
}
