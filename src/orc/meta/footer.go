package meta

import "google.golang.org/protobuf/encoding/protowire"

// StripeInfo locates one stripe within the file and how many rows it holds.
type StripeInfo struct {
	Offset      uint64
	IndexLength uint64
	DataLength  uint64
	FooterLength uint64
	NumRows     uint64
}

func (si StripeInfo) End() uint64 { return si.Offset + si.IndexLength + si.DataLength + si.FooterLength }

func parseStripeInfo(name string, data []byte) (StripeInfo, error) {
	var si StripeInfo
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		v, err := asVarint(name, raw)
		if err != nil {
			return err
		}
		switch num {
		case 1:
			si.Offset = v
		case 2:
			si.IndexLength = v
		case 3:
			si.DataLength = v
		case 4:
			si.FooterLength = v
		case 5:
			si.NumRows = v
		}
		return nil
	})
	return si, err
}

// Footer is the file-level metadata block, parsed once at open time.
type Footer struct {
	RowCount       uint64
	RowIndexStride uint32
	Stripes        []StripeInfo
	Types          TypeTree
	Statistics     []ColumnStatistics // file-level, one per type-tree node, index-aligned
}

// ParseFooter decodes the (already decompressed) Footer message.
func ParseFooter(name string, data []byte) (Footer, error) {
	var f Footer
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 3:
			si, err := parseStripeInfo(name, raw)
			if err != nil {
				return err
			}
			f.Stripes = append(f.Stripes, si)
		case 4:
			t, err := parseType(name, raw)
			if err != nil {
				return err
			}
			t.ID = len(f.Types.Nodes)
			f.Types.Nodes = append(f.Types.Nodes, t)
		case 6:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			f.RowCount = v
		case 7:
			cs, err := parseColumnStatistics(name, raw)
			if err != nil {
				return err
			}
			f.Statistics = append(f.Statistics, cs)
		case 8:
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			f.RowIndexStride = uint32(v)
		}
		return nil
	})
	if err != nil {
		return Footer{}, err
	}
	if len(f.Types.Nodes) == 0 {
		return Footer{}, malformed(name, "footer has no type tree")
	}
	return f, nil
}
