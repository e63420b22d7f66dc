package predicate

import (
	"testing"

	"github.com/omyshell/presto/src/orc/meta"
)

func intDomain(lo, hi int64) Domain {
	return Domain{
		Kind:   meta.StatInteger,
		Ranges: []Range{{HasMin: true, IntMin: lo, HasMax: true, IntMax: hi}},
	}
}

func TestMayMatchRejectsDisjointRange(t *testing.T) {
	td := TupleDomain{Columns: map[int]Domain{1: intDomain(100, 200)}}
	stats := map[int]meta.ColumnStatistics{
		1: {Kind: meta.StatInteger, IntMin: 0, IntMax: 50},
	}
	if MayMatch(td, stats) {
		t.Fatal("expected reject: [0,50] does not overlap [100,200]")
	}
}

func TestMayMatchAcceptsOverlappingRange(t *testing.T) {
	td := TupleDomain{Columns: map[int]Domain{1: intDomain(100, 200)}}
	stats := map[int]meta.ColumnStatistics{
		1: {Kind: meta.StatInteger, IntMin: 150, IntMax: 300},
	}
	if !MayMatch(td, stats) {
		t.Fatal("expected accept: [150,300] overlaps [100,200]")
	}
}

func TestMayMatchAcceptsAbsentStatistics(t *testing.T) {
	td := TupleDomain{Columns: map[int]Domain{1: intDomain(100, 200)}}
	if !MayMatch(td, map[int]meta.ColumnStatistics{}) {
		t.Fatal("a column with no statistics entry must never be rejected")
	}
}

func TestMayMatchAcceptsUnknownColumn(t *testing.T) {
	td := TupleDomain{Columns: map[int]Domain{1: intDomain(100, 200)}}
	stats := map[int]meta.ColumnStatistics{
		2: {Kind: meta.StatInteger, IntMin: 0, IntMax: 1},
	}
	if !MayMatch(td, stats) {
		t.Fatal("a predicate on a column absent from stats must never reject")
	}
}

func TestMayMatchNullAllowedRange(t *testing.T) {
	td := TupleDomain{Columns: map[int]Domain{
		1: {Kind: meta.StatInteger, NullAllowed: true},
	}}
	stats := map[int]meta.ColumnStatistics{
		1: {Kind: meta.StatInteger, HasNull: true, IntMin: 5, IntMax: 5},
	}
	if !MayMatch(td, stats) {
		t.Fatal("expected accept: domain allows null and stats report nulls present")
	}
}

func TestMayMatchEmptyPredicateAlwaysMatches(t *testing.T) {
	if !MayMatch(TupleDomain{}, map[int]meta.ColumnStatistics{
		1: {Kind: meta.StatInteger, IntMin: 0, IntMax: 0},
	}) {
		t.Fatal("an empty tuple domain never rejects anything")
	}
}

func TestRowGroupStatsByColumnIndexesByGroup(t *testing.T) {
	rowIndexes := map[int]meta.RowIndex{
		1: {Entries: []meta.RowIndexEntry{
			{Statistics: meta.ColumnStatistics{Kind: meta.StatInteger, IntMin: 0, IntMax: 9}},
			{Statistics: meta.ColumnStatistics{Kind: meta.StatInteger, IntMin: 10, IntMax: 19}},
		}},
	}
	got := RowGroupStatsByColumn(rowIndexes, 1)
	if got[1].IntMin != 10 || got[1].IntMax != 19 {
		t.Fatalf("got %+v, want IntMin=10 IntMax=19", got[1])
	}
}

func TestRowGroupStatsByColumnOutOfRangeOmitted(t *testing.T) {
	rowIndexes := map[int]meta.RowIndex{
		1: {Entries: []meta.RowIndexEntry{
			{Statistics: meta.ColumnStatistics{Kind: meta.StatInteger}},
		}},
	}
	got := RowGroupStatsByColumn(rowIndexes, 5)
	if _, ok := got[1]; ok {
		t.Fatal("a group index beyond the row index's entries must be omitted, not zero-valued")
	}
}
