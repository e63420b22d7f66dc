package meta

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// StatKind tags which of the mutually-exclusive statistics families a
// ColumnStatistics carries, matching the component design's "one of
// {integer, double, string, date, bucket-bool}" shape.
type StatKind uint8

const (
	StatNone StatKind = iota
	StatInteger
	StatDouble
	StatString
	StatDate
	StatBool
)

// ColumnStatistics is a tagged variant over the statistics families ORC and
// DWRF both write; fields outside the active Kind are zero.
type ColumnStatistics struct {
	Count   uint64
	HasNull bool
	Kind    StatKind

	IntMin, IntMax       int64
	DoubleMin, DoubleMax float64
	StringMin, StringMax string
	DateMin, DateMax     int32 // days since epoch
	BoolTrueCount        uint64
}

func parseColumnStatistics(name string, data []byte) (ColumnStatistics, error) {
	var cs ColumnStatistics
	err := forEachField(name, data, func(num protowire.Number, typ protowire.Type, raw []byte) error {
		switch num {
		case 1: // numberOfValues
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			cs.Count = v
		case 2: // intStatistics
			cs.Kind = StatInteger
			return forEachField(name, raw, func(n protowire.Number, t protowire.Type, r []byte) error {
				switch n {
				case 1:
					v, err := asSignedVarint(name, r)
					if err != nil {
						return err
					}
					cs.IntMin = v
				case 2:
					v, err := asSignedVarint(name, r)
					if err != nil {
						return err
					}
					cs.IntMax = v
				}
				return nil
			})
		case 3: // doubleStatistics
			cs.Kind = StatDouble
			return forEachField(name, raw, func(n protowire.Number, t protowire.Type, r []byte) error {
				switch n {
				case 1:
					v, n2 := protowire.ConsumeFixed64(r)
					if n2 < 0 {
						return malformed(name, "bad double min")
					}
					cs.DoubleMin = math.Float64frombits(v)
				case 2:
					v, n2 := protowire.ConsumeFixed64(r)
					if n2 < 0 {
						return malformed(name, "bad double max")
					}
					cs.DoubleMax = math.Float64frombits(v)
				}
				return nil
			})
		case 4: // stringStatistics
			cs.Kind = StatString
			return forEachField(name, raw, func(n protowire.Number, t protowire.Type, r []byte) error {
				switch n {
				case 1:
					cs.StringMin = asString(r)
				case 2:
					cs.StringMax = asString(r)
				}
				return nil
			})
		case 5: // bucketStatistics (bool true-count)
			cs.Kind = StatBool
			return forEachField(name, raw, func(n protowire.Number, t protowire.Type, r []byte) error {
				if n == 1 {
					v, err := asVarint(name, r)
					if err != nil {
						return err
					}
					cs.BoolTrueCount = v
				}
				return nil
			})
		case 7: // dateStatistics
			cs.Kind = StatDate
			return forEachField(name, raw, func(n protowire.Number, t protowire.Type, r []byte) error {
				switch n {
				case 1:
					v, err := asSignedVarint(name, r)
					if err != nil {
						return err
					}
					cs.DateMin = int32(v)
				case 2:
					v, err := asSignedVarint(name, r)
					if err != nil {
						return err
					}
					cs.DateMax = int32(v)
				}
				return nil
			})
		case 9: // hasNull
			v, err := asVarint(name, raw)
			if err != nil {
				return err
			}
			cs.HasNull = v != 0
		}
		return nil
	})
	return cs, err
}
