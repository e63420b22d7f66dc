package meta

import "google.golang.org/protobuf/encoding/protowire"

// StreamKind is a dialect-agnostic canonical space: ORC and DWRF each use
// their own wire enum numbering, translated into this set at parse time so
// column readers never need to know which dialect produced the file.
type StreamKind uint8

const (
	StreamPresent StreamKind = iota
	StreamData
	StreamLength
	StreamDictionaryData
	StreamDictionaryCount
	StreamSecondary
	StreamRowIndex
	StreamBloomFilter
	StreamRowGroupDictionary
	StreamRowGroupDictionaryLength
)

func (k StreamKind) String() string {
	names := [...]string{"PRESENT", "DATA", "LENGTH", "DICTIONARY_DATA", "DICTIONARY_COUNT",
		"SECONDARY", "ROW_INDEX", "BLOOM_FILTER", "ROW_GROUP_DICTIONARY", "ROW_GROUP_DICTIONARY_LENGTH"}
	if int(k) < len(names) {
		return names[k]
	}
	return "UNKNOWN"
}

// mapORCStreamKind translates the Apache ORC Stream.Kind wire values.
func mapORCStreamKind(name string, raw uint64) (StreamKind, error) {
	switch raw {
	case 0:
		return StreamPresent, nil
	case 1:
		return StreamData, nil
	case 2:
		return StreamLength, nil
	case 3:
		return StreamDictionaryData, nil
	case 4:
		return StreamDictionaryCount, nil
	case 5:
		return StreamSecondary, nil
	case 6:
		return StreamRowIndex, nil
	case 7, 8:
		return StreamBloomFilter, nil
	default:
		return 0, orcUnsupportedStreamKind(name)
	}
}

// mapDWRFStreamKind translates the legacy DWRF Stream.Kind wire values,
// remapping NANO_DATA onto SECONDARY and the stride-scoped dictionary kinds
// onto the row-group-scoped ones column readers understand.
func mapDWRFStreamKind(name string, raw uint64) (StreamKind, error) {
	switch raw {
	case 0:
		return StreamPresent, nil
	case 1:
		return StreamData, nil
	case 2:
		return StreamLength, nil
	case 3:
		return StreamDictionaryData, nil
	case 4:
		return StreamDictionaryCount, nil
	case 5: // NANO_DATA
		return StreamSecondary, nil
	case 6:
		return StreamRowIndex, nil
	case 7: // STRIDE_DICTIONARY
		return StreamRowGroupDictionary, nil
	case 8: // STRIDE_DICTIONARY_LENGTH
		return StreamRowGroupDictionaryLength, nil
	case 9, 10:
		return StreamBloomFilter, nil
	default:
		return 0, orcUnsupportedStreamKind(name)
	}
}

func orcUnsupportedStreamKind(name string) error {
	return unsupportedMetadata(name, "unknown stream kind for dialect")
}

// Stream is a stripe footer's stream descriptor: which column it belongs
// to, which logical kind it carries, and its byte length within the
// stripe's data (or index) region.
type Stream struct {
	Column   int
	Kind     StreamKind
	Length   uint64
	UsesVInt bool // absent on the wire in both dialects observed; defaults true
}

func parseStream(name string, data []byte, dialect Dialect) (Stream, error) {
	s := Stream{UsesVInt: true}
	var rawKind uint64
	haveKind := false
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			rawKind = v
			haveKind = true
		case 2:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			s.Column = int(v)
		case 3:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			s.Length = v
		case 4:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			s.UsesVInt = v != 0
		}
		return nil
	})
	if err != nil {
		return Stream{}, err
	}
	if !haveKind {
		return Stream{}, malformed(name, "stream descriptor missing kind")
	}
	var kind StreamKind
	if dialect == DialectDWRF {
		kind, err = mapDWRFStreamKind(name, rawKind)
	} else {
		kind, err = mapORCStreamKind(name, rawKind)
	}
	if err != nil {
		return Stream{}, err
	}
	s.Kind = kind
	return s, nil
}

// EncodingKind is the canonical, dialect-resolved column encoding: DWRF's
// DIRECT on an integer column is resolved to DwrfDirect at parse time so
// column readers pick v1 vs v2 RLE without re-deriving dialect rules
// themselves.
type EncodingKind uint8

const (
	EncodingDirect EncodingKind = iota
	EncodingDictionary
	EncodingDirectV2
	EncodingDictionaryV2
	EncodingDwrfDirect
)

func (k EncodingKind) String() string {
	names := [...]string{"DIRECT", "DICTIONARY", "DIRECT_V2", "DICTIONARY_V2", "DWRF_DIRECT"}
	if int(k) < len(names) {
		return names[k]
	}
	return "UNKNOWN"
}

func (k EncodingKind) UsesV2RLE() bool {
	return k == EncodingDirectV2 || k == EncodingDictionaryV2
}

func (k EncodingKind) IsDictionary() bool {
	return k == EncodingDictionary || k == EncodingDictionaryV2
}

// ColumnEncoding is one stripe footer column-encoding entry.
type ColumnEncoding struct {
	Kind           EncodingKind
	DictionarySize int
}

func parseColumnEncoding(name string, data []byte, typeKind TypeKind, dialect Dialect) (ColumnEncoding, error) {
	var ce ColumnEncoding
	var rawKind uint64
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			rawKind = v
		case 2:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ce.DictionarySize = int(v)
		}
		return nil
	})
	if err != nil {
		return ColumnEncoding{}, err
	}
	switch rawKind {
	case 0:
		ce.Kind = EncodingDirect
	case 1:
		ce.Kind = EncodingDictionary
	case 2:
		ce.Kind = EncodingDirectV2
	case 3:
		ce.Kind = EncodingDictionaryV2
	default:
		return ColumnEncoding{}, unsupportedMetadata(name, "unknown column encoding kind")
	}
	if dialect == DialectDWRF && ce.Kind == EncodingDirect {
		switch typeKind {
		case TypeShort, TypeInt, TypeLong:
			ce.Kind = EncodingDwrfDirect
		}
	}
	return ce, nil
}
