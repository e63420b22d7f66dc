package meta

import "google.golang.org/protobuf/encoding/protowire"

// RowIndexEntry snapshots one stream's decoder position plus the row
// group's statistics, at row-index-stride boundaries.
type RowIndexEntry struct {
	Positions  []uint64
	Statistics ColumnStatistics
}

// RowIndex is the per-column sequence of RowIndexEntry, one per row group
// in the stripe.
type RowIndex struct {
	Entries []RowIndexEntry
}

func parseRowIndexEntry(name string, data []byte) (RowIndexEntry, error) {
	var e RowIndexEntry
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1:
			vals, err := packedVarints(name, raw)
			if err != nil {
				return err
			}
			e.Positions = append(e.Positions, vals...)
		case 2:
			cs, err := parseColumnStatistics(name, raw)
			if err != nil {
				return err
			}
			e.Statistics = cs
		}
		return nil
	})
	return e, err
}

// ParseRowIndex decodes a (decompressed) RowIndex message - the contents of
// one column's ROW_INDEX stream.
func ParseRowIndex(name string, data []byte) (RowIndex, error) {
	var ri RowIndex
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		if num == 1 {
			e, err := parseRowIndexEntry(name, raw)
			if err != nil {
				return err
			}
			ri.Entries = append(ri.Entries, e)
		}
		return nil
	})
	return ri, err
}
