package reader

import (
	"time"

	"github.com/omyshell/presto/src/orc/column"
	"github.com/omyshell/presto/src/orc/compress"
	orcerrors "github.com/omyshell/presto/src/orc/errors"
	"github.com/omyshell/presto/src/orc/meta"
	"github.com/omyshell/presto/src/orc/stream"
)

func newIntegerDecoder(enc meta.ColumnEncoding, bs *compress.BlockStream, name string, signed bool) stream.IntegerDecoder {
	if enc.UsesV2RLE() {
		return stream.NewIntegerStreamV2(bs, name, signed)
	}
	return stream.NewIntegerStreamV1(bs, name, signed)
}

func optionalPresent(ss *stripeStreams, col int, name string) *stream.BooleanStream {
	bs, ok := ss.get(col, meta.StreamPresent)
	if !ok {
		return nil
	}
	return stream.NewBooleanStream(stream.NewByteStream(bs, name))
}

// buildColumnReader recursively wires a column.Reader for type-tree node
// col, dispatching on its ORC type kind and resolved encoding. name is the
// file name, threaded through for error context only.
func buildColumnReader(types meta.TypeTree, encodings []meta.ColumnEncoding, ss *stripeStreams, col int, name string, fileZone *time.Location) (column.Reader, error) {
	node, ok := types.Node(col)
	if !ok {
		return nil, orcerrors.Corruption(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "column id out of range of type tree")
	}
	if col >= len(encodings) {
		return nil, orcerrors.Corruption(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "column id has no encoding entry")
	}
	enc := encodings[col]
	pres := optionalPresent(ss, col, name)

	switch node.Kind {
	case meta.TypeBoolean:
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		return column.NewBooleanReader(col, pres, stream.NewBooleanStream(stream.NewByteStream(data, name))), nil

	case meta.TypeByte:
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		return column.NewByteReader(col, pres, stream.NewByteStream(data, name)), nil

	case meta.TypeShort, meta.TypeInt, meta.TypeLong, meta.TypeDate:
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		return column.NewLongReader(col, pres, newIntegerDecoder(enc, data, name, true)), nil

	case meta.TypeFloat:
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		return column.NewFloatReader(col, pres, stream.NewFloatStream(data, name)), nil

	case meta.TypeDouble:
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		return column.NewDoubleReader(col, pres, stream.NewDoubleStream(data, name)), nil

	case meta.TypeString, meta.TypeVarchar, meta.TypeChar, meta.TypeBinary:
		return buildStringReader(ss, col, name, enc, pres)

	case meta.TypeTimestamp:
		secs, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		nanos, ok := ss.get(col, meta.StreamSecondary)
		if !ok {
			return nil, missingStream(name, col, meta.StreamSecondary)
		}
		return column.NewTimestampReader(col, pres,
			newIntegerDecoder(enc, secs, name, true),
			newIntegerDecoder(enc, nanos, name, false),
			fileZone), nil

	case meta.TypeStruct:
		fields := make([]column.Reader, len(node.Subtypes))
		for i, childID := range node.Subtypes {
			child, err := buildColumnReader(types, encodings, ss, childID, name, fileZone)
			if err != nil {
				return nil, err
			}
			fields[i] = child
		}
		return column.NewStructReader(col, pres, fields), nil

	case meta.TypeList:
		if len(node.Subtypes) != 1 {
			return nil, orcerrors.Corruption(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "LIST type must have exactly one child")
		}
		lengths, ok := ss.get(col, meta.StreamLength)
		if !ok {
			return nil, missingStream(name, col, meta.StreamLength)
		}
		child, err := buildColumnReader(types, encodings, ss, node.Subtypes[0], name, fileZone)
		if err != nil {
			return nil, err
		}
		return column.NewListReader(col, pres, newIntegerDecoder(enc, lengths, name, false), child), nil

	case meta.TypeMap:
		if len(node.Subtypes) != 2 {
			return nil, orcerrors.Corruption(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "MAP type must have exactly two children")
		}
		lengths, ok := ss.get(col, meta.StreamLength)
		if !ok {
			return nil, missingStream(name, col, meta.StreamLength)
		}
		keyReader, err := buildColumnReader(types, encodings, ss, node.Subtypes[0], name, fileZone)
		if err != nil {
			return nil, err
		}
		valReader, err := buildColumnReader(types, encodings, ss, node.Subtypes[1], name, fileZone)
		if err != nil {
			return nil, err
		}
		return column.NewMapReader(col, pres, newIntegerDecoder(enc, lengths, name, false), keyReader, valReader), nil

	case meta.TypeUnion:
		tags, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		children := make([]column.Reader, len(node.Subtypes))
		for i, childID := range node.Subtypes {
			child, err := buildColumnReader(types, encodings, ss, childID, name, fileZone)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return column.NewUnionReader(col, pres, stream.NewByteStream(tags, name), children), nil

	case meta.TypeDecimal:
		return nil, orcerrors.UnsupportedMetadata(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "DECIMAL columns are not supported")

	default:
		return nil, orcerrors.UnsupportedMetadata(orcerrors.Context{File: name, ColumnID: col, HasColumn: true}, "unsupported column type")
	}
}

// buildStringReader wires either the DIRECT(_V2) length+data pair or the
// DICTIONARY(_V2) index+dictionary pair. Row-group-scoped fallback
// dictionaries (DWRF STRIDE_DICTIONARY) are not materialized - per the
// reference's own ambiguity around IN_DICTIONARY-absent files (design note
// 9b), every index is resolved against the stripe dictionary.
func buildStringReader(ss *stripeStreams, col int, name string, enc meta.ColumnEncoding, pres *stream.BooleanStream) (column.Reader, error) {
	if !enc.IsDictionary() {
		lengths, ok := ss.get(col, meta.StreamLength)
		if !ok {
			return nil, missingStream(name, col, meta.StreamLength)
		}
		data, ok := ss.get(col, meta.StreamData)
		if !ok {
			return nil, missingStream(name, col, meta.StreamData)
		}
		ss2 := stream.NewStringStream(newIntegerDecoder(enc, lengths, name, false), data)
		return column.NewDirectStringReader(col, pres, ss2), nil
	}

	dictData, ok := ss.get(col, meta.StreamDictionaryData)
	if !ok {
		return nil, missingStream(name, col, meta.StreamDictionaryData)
	}
	dictCount, ok := ss.get(col, meta.StreamDictionaryCount)
	if !ok {
		return nil, missingStream(name, col, meta.StreamDictionaryCount)
	}
	dict, err := stream.ReadDictionary(newIntegerDecoder(enc, dictCount, name, false), dictData, enc.DictionarySize)
	if err != nil {
		return nil, err
	}
	indices, ok := ss.get(col, meta.StreamData)
	if !ok {
		return nil, missingStream(name, col, meta.StreamData)
	}
	return column.NewDictionaryStringReader(col, pres, newIntegerDecoder(enc, indices, name, false), dict), nil
}

func missingStream(name string, col int, kind meta.StreamKind) error {
	return orcerrors.Corruption(orcerrors.Context{File: name, ColumnID: col, HasColumn: true, StreamKind: kind.String()}, "required stream missing for column")
}
