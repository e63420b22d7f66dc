// Package predicate implements tuple-domain pruning: a conjunction of
// per-column value-range constraints evaluated against column statistics to
// decide whether a stripe or row group can be skipped without being read.
package predicate

import "github.com/omyshell/presto/src/orc/meta"

// Range is one contiguous bound within a Domain; HasMin/HasMax false means
// unbounded on that side. Exactly one of the typed fields is meaningful,
// selected by the owning Domain's Kind.
type Range struct {
	HasMin, HasMax bool

	IntMin, IntMax       int64
	DoubleMin, DoubleMax float64
	StringMin, StringMax string
	DateMin, DateMax     int32
}

// Domain is the set of values a column is permitted to take: a union of
// Ranges plus whether null is allowed.
type Domain struct {
	Kind        meta.StatKind
	Ranges      []Range
	NullAllowed bool
}

// TupleDomain is a conjunction over columns: a column absent from the map
// is unconstrained ("any value").
type TupleDomain struct {
	Columns map[int]Domain
}

func rangeOverlapsInt(r Range, lo, hi int64) bool {
	if r.HasMin && r.IntMin > hi {
		return false
	}
	if r.HasMax && r.IntMax < lo {
		return false
	}
	return true
}

func rangeOverlapsDouble(r Range, lo, hi float64) bool {
	if r.HasMin && r.DoubleMin > hi {
		return false
	}
	if r.HasMax && r.DoubleMax < lo {
		return false
	}
	return true
}

func rangeOverlapsString(r Range, lo, hi string) bool {
	if r.HasMin && r.StringMin > hi {
		return false
	}
	if r.HasMax && r.StringMax < lo {
		return false
	}
	return true
}

func rangeOverlapsDate(r Range, lo, hi int32) bool {
	if r.HasMin && r.DateMin > hi {
		return false
	}
	if r.HasMax && r.DateMax < lo {
		return false
	}
	return true
}
