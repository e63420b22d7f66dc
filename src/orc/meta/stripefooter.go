package meta

import "google.golang.org/protobuf/encoding/protowire"

// StripeFooter lists a stripe's streams and per-column encodings.
type StripeFooter struct {
	Streams        []Stream
	ColumnEncoding []ColumnEncoding // index-aligned with the footer's type tree
	WriterTimezone string
}

// ParseStripeFooter decodes a (decompressed) StripeFooter message. types and
// dialect are needed because column encodings are dialect- and
// type-dependent (DIRECT on an integer column becomes DwrfDirect under
// DWRF).
func ParseStripeFooter(name string, data []byte, types TypeTree, dialect Dialect) (StripeFooter, error) {
	var sf StripeFooter
	columnIdx := 0
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1:
			s, err := parseStream(name, raw, dialect)
			if err != nil {
				return err
			}
			sf.Streams = append(sf.Streams, s)
		case 2:
			var kind TypeKind
			if node, ok := types.Node(columnIdx); ok {
				kind = node.Kind
			}
			ce, err := parseColumnEncoding(name, raw, kind, dialect)
			if err != nil {
				return err
			}
			sf.ColumnEncoding = append(sf.ColumnEncoding, ce)
			columnIdx++
		case 3:
			sf.WriterTimezone = asString(raw)
		}
		return nil
	})
	return sf, err
}
