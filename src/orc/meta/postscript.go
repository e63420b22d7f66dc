package meta

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/omyshell/presto/src/orc/compress"
)

// PostScript is the fixed-position trailer every ORC/DWRF file ends with:
// a one-byte length (read by the caller, not here) followed by this
// message.
type PostScript struct {
	FooterLength          uint64
	Compression           compress.Kind
	CompressionBlockSize  uint64
	MetadataLength        uint64
	WriterVersion         uint64
	StripeStatisticsLength uint64
	Version               []uint64
	Dialect               Dialect
}

// ParsePostScript decodes the postscript and, in the same pass, determines
// the dialect: a DWRF postscript carries neither a version list nor a
// metadataLength field.
func ParsePostScript(name string, data []byte) (PostScript, error) {
	var ps PostScript
	var rawCompression uint64
	haveMetadataLength := false
	haveVersion := false

	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ps.FooterLength = v
		case 2:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			rawCompression = v
		case 3:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ps.CompressionBlockSize = v
		case 4:
			haveVersion = true
			if typ == protowire.BytesType {
				vals, err := packedVarints(name, raw)
				if err != nil {
					return err
				}
				ps.Version = append(ps.Version, vals...)
			} else {
				v, err := asVarint(name, raw)
				if err != nil {
					return err
				}
				ps.Version = append(ps.Version, v)
			}
		case 5:
			haveMetadataLength = true
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ps.MetadataLength = v
		case 6:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ps.WriterVersion = v
		case 7:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			ps.StripeStatisticsLength = v
		}
		return nil
	})
	if err != nil {
		return PostScript{}, err
	}

	if !haveMetadataLength && !haveVersion {
		ps.Dialect = DialectDWRF
	} else {
		ps.Dialect = DialectORC
	}

	switch rawCompression {
	case 0:
		ps.Compression = compress.KindNone
	case 1:
		ps.Compression = compress.KindZlib
	case 2:
		ps.Compression = compress.KindSnappy
	default:
		return PostScript{}, unsupportedMetadata(name, "unsupported compression kind")
	}
	return ps, nil
}
