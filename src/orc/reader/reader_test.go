package reader

import (
	"reflect"
	"sort"
	"testing"

	"github.com/omyshell/presto/src/orc/meta"
)

// a struct<a:int, b:list<int>> type tree: 0=struct, 1=int (field a),
// 2=list, 3=int (list element)
func testTypeTree() meta.TypeTree {
	return meta.TypeTree{Nodes: []meta.TypeNode{
		{ID: 0, Kind: meta.TypeStruct, Subtypes: []int{1, 2}, FieldNames: []string{"a", "b"}},
		{ID: 1, Kind: meta.TypeInt},
		{ID: 2, Kind: meta.TypeList, Subtypes: []int{3}},
		{ID: 3, Kind: meta.TypeInt},
	}}
}

func TestCollectColumnIDsLeaf(t *testing.T) {
	got := collectColumnIDs(testTypeTree(), 1, nil)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestCollectColumnIDsStructIncludesAllDescendants(t *testing.T) {
	got := collectColumnIDs(testTypeTree(), 0, nil)
	sort.Ints(got)
	want := []int{0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCollectColumnIDsListIncludesElement(t *testing.T) {
	got := collectColumnIDs(testTypeTree(), 2, nil)
	sort.Ints(got)
	want := []int{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRowGroupPositionsResolvesByColumnID(t *testing.T) {
	p := &rowGroupPositions{
		name: "t",
		rowIndexes: map[int]meta.RowIndex{
			1: {Entries: []meta.RowIndexEntry{
				{Positions: []uint64{0, 0, 0}},
				{Positions: []uint64{1, 2, 3}},
			}},
		},
		group: 1,
	}
	pr, err := p.Positions(1)
	if err != nil {
		t.Fatal(err)
	}
	v, err := pr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
}

func TestRowGroupPositionsUnknownColumnErrors(t *testing.T) {
	p := &rowGroupPositions{name: "t", rowIndexes: map[int]meta.RowIndex{}, group: 0}
	if _, err := p.Positions(9); err == nil {
		t.Fatal("expected an error for a column with no row index entry")
	}
}

func TestRowGroupPositionsOutOfRangeGroupErrors(t *testing.T) {
	p := &rowGroupPositions{
		name: "t",
		rowIndexes: map[int]meta.RowIndex{
			1: {Entries: []meta.RowIndexEntry{{Positions: []uint64{0}}}},
		},
		group: 5,
	}
	if _, err := p.Positions(1); err == nil {
		t.Fatal("expected an error for a group index beyond the row index's entries")
	}
}
