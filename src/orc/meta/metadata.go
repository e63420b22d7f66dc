package meta

import "google.golang.org/protobuf/encoding/protowire"

// StripeStatistics is one stripe's worth of per-column statistics, used for
// stripe-level predicate pruning without reading the stripe itself. DWRF
// files carry no metadata section at all (design note (a)): a DWRF footer's
// caller must not rely on this for pruning and should fall back to
// row-group-level statistics only.
type StripeStatistics struct {
	ColumnStatistics []ColumnStatistics // index-aligned with the footer's type tree
}

// Metadata is the optional section between the footer and the postscript
// that ORC files carry (absent entirely in DWRF).
type Metadata struct {
	StripeStatistics []StripeStatistics
}

func parseStripeStatistics(name string, data []byte) (StripeStatistics, error) {
	var ss StripeStatistics
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		if num == 1 {
			cs, err := parseColumnStatistics(name, raw)
			if err != nil {
				return err
			}
			ss.ColumnStatistics = append(ss.ColumnStatistics, cs)
		}
		return nil
	})
	return ss, err
}

// ParseMetadata decodes the (decompressed) Metadata message.
func ParseMetadata(name string, data []byte) (Metadata, error) {
	var m Metadata
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		if num == 1 {
			ss, err := parseStripeStatistics(name, raw)
			if err != nil {
				return err
			}
			m.StripeStatistics = append(m.StripeStatistics, ss)
		}
		return nil
	})
	return m, err
}
