package predicate

import "github.com/omyshell/presto/src/orc/meta"

// domainOverlapsStats reports whether d and the value range/nullability
// implied by stats could share at least one value. Absent statistics
// (Kind == StatNone) are treated as "any value" - the widest possible
// approximation, never a rejection.
func domainOverlapsStats(d Domain, stats meta.ColumnStatistics) bool {
	if stats.Kind == meta.StatNone {
		return true
	}
	if d.NullAllowed && stats.HasNull {
		return true
	}
	if len(d.Ranges) == 0 {
		// no ranges and null not allowed (or no nulls present): domain
		// permits nothing comparable against non-null stats.
		return false
	}
	for _, r := range d.Ranges {
		var ok bool
		switch stats.Kind {
		case meta.StatInteger:
			ok = rangeOverlapsInt(r, stats.IntMin, stats.IntMax)
		case meta.StatDouble:
			ok = rangeOverlapsDouble(r, stats.DoubleMin, stats.DoubleMax)
		case meta.StatString:
			ok = rangeOverlapsString(r, stats.StringMin, stats.StringMax)
		case meta.StatDate:
			ok = rangeOverlapsDate(r, stats.DateMin, stats.DateMax)
		case meta.StatBool:
			// bucket statistics only carry a true-count; any stripe/group
			// with either a true or a false value (i.e. anything at all)
			// overlaps a boolean domain that allows at least one range.
			ok = true
		default:
			ok = true
		}
		if ok {
			return true
		}
	}
	return false
}

// MayMatch evaluates the whole tuple domain against one set of column
// statistics, indexed by column id. It returns false only when at least one
// constrained column's domain provably shares no value with that column's
// statistics; an empty predicate, or a predicate naming a column with no
// entry in stats, always matches - rejecting only when certain is the
// point, since false positives are fine but false negatives drop real rows.
func MayMatch(td TupleDomain, statsByColumn map[int]meta.ColumnStatistics) bool {
	for col, domain := range td.Columns {
		stats, ok := statsByColumn[col]
		if !ok {
			continue // unknown column: never used to reject
		}
		if !domainOverlapsStats(domain, stats) {
			return false
		}
	}
	return true
}

// StripeStatsByColumn turns a parsed StripeStatistics (index-aligned with
// the type tree) into the column-id-keyed map MayMatch expects.
func StripeStatsByColumn(ss meta.StripeStatistics) map[int]meta.ColumnStatistics {
	out := make(map[int]meta.ColumnStatistics, len(ss.ColumnStatistics))
	for id, cs := range ss.ColumnStatistics {
		out[id] = cs
	}
	return out
}

// RowGroupStatsByColumn collects one row-group's statistics across several
// columns' row indexes, keyed by column id, for a single row-group index i.
func RowGroupStatsByColumn(rowIndexes map[int]meta.RowIndex, groupIdx int) map[int]meta.ColumnStatistics {
	out := make(map[int]meta.ColumnStatistics, len(rowIndexes))
	for col, ri := range rowIndexes {
		if groupIdx < len(ri.Entries) {
			out[col] = ri.Entries[groupIdx].Statistics
		}
	}
	return out
}
