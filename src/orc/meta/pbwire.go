// Package meta parses the ORC/DWRF protocol-buffer metadata structures -
// postscript, footer, stripe footer and row index - without requiring a
// .proto codegen step. Each message is hand-decoded field by field using
// protowire's low-level tag/varint/length-delimited primitives, dispatched
// by field number the same way generated code would be, just written out.
package meta

import (
	"google.golang.org/protobuf/encoding/protowire"

	orcerrors "github.com/omyshell/presto/src/orc/errors"
)

// forEachField walks the top-level fields of a protobuf message, handing
// each one's raw encoded value to fn. For varint and fixed-width fields the
// slice still carries its own encoding (callers re-run protowire.ConsumeX on
// it); for length-delimited fields it is the payload with the length prefix
// already stripped.
func forEachField(name string, data []byte, fn func(num protowire.Number, typ protowire.Type, raw []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return malformed(name, "bad field tag")
		}
		data = data[n:]
		switch typ {
		case protowire.VarintType:
			_, n2 := protowire.ConsumeVarint(data)
			if n2 < 0 {
				return malformed(name, "bad varint field")
			}
			if err := fn(num, typ, data[:n2]); err != nil {
				return err
			}
			data = data[n2:]
		case protowire.Fixed32Type:
			_, n2 := protowire.ConsumeFixed32(data)
			if n2 < 0 {
				return malformed(name, "bad fixed32 field")
			}
			if err := fn(num, typ, data[:n2]); err != nil {
				return err
			}
			data = data[n2:]
		case protowire.Fixed64Type:
			_, n2 := protowire.ConsumeFixed64(data)
			if n2 < 0 {
				return malformed(name, "bad fixed64 field")
			}
			if err := fn(num, typ, data[:n2]); err != nil {
				return err
			}
			data = data[n2:]
		case protowire.BytesType:
			b, n2 := protowire.ConsumeBytes(data)
			if n2 < 0 {
				return malformed(name, "bad length-delimited field")
			}
			if err := fn(num, typ, b); err != nil {
				return err
			}
			data = data[n2:]
		default:
			return orcerrors.UnsupportedMetadata(orcerrors.Context{File: name}, "unsupported protobuf wire type")
		}
	}
	return nil
}

func malformed(name, msg string) error {
	return orcerrors.Malformed(orcerrors.Context{File: name}, msg, nil)
}

func asVarint(name string, raw []byte) (uint64, error) {
	v, n := protowire.ConsumeVarint(raw)
	if n < 0 {
		return 0, malformed(name, "bad varint value")
	}
	return v, nil
}

func asSignedVarint(name string, raw []byte) (int64, error) {
	v, err := asVarint(name, raw)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func asString(raw []byte) string { return string(raw) }

// packedVarints decodes a packed-repeated varint field (used for RowIndex
// position vectors and PostScript version numbers).
func packedVarints(name string, raw []byte) ([]uint64, error) {
	var out []uint64
	for len(raw) > 0 {
		v, n := protowire.ConsumeVarint(raw)
		if n < 0 {
			return nil, malformed(name, "bad packed varint")
		}
		out = append(out, v)
		raw = raw[n:]
	}
	return out, nil
}
