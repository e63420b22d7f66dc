package column

import "testing"

func TestBatchEnsureLongsGrowsMonotonically(t *testing.T) {
	var b Batch
	b.ensureLongs(4)
	if len(b.Longs) != 4 || len(b.NullMask) != 4 {
		t.Fatalf("got Longs=%d NullMask=%d, want 4/4", len(b.Longs), len(b.NullMask))
	}
	backing := b.Longs

	// shrinking then growing within the same capacity must not reallocate
	b.ensureLongs(2)
	if len(b.Longs) != 2 {
		t.Fatalf("got len %d, want 2", len(b.Longs))
	}
	b.ensureLongs(4)
	if &b.Longs[0] != &backing[0] {
		t.Fatal("ensureLongs reallocated within an already-sufficient capacity")
	}

	// growing past capacity must reallocate to the new size
	b.ensureLongs(10)
	if len(b.Longs) != 10 || cap(b.Longs) < 10 {
		t.Fatalf("got len=%d cap=%d, want len=10 cap>=10", len(b.Longs), cap(b.Longs))
	}
}

func TestBatchEnsureTimestampKeepsLongsAndNanosAligned(t *testing.T) {
	var b Batch
	b.ensureTimestamp(3)
	if len(b.Longs) != 3 || len(b.Nanos) != 3 {
		t.Fatalf("got Longs=%d Nanos=%d, want 3/3", len(b.Longs), len(b.Nanos))
	}
}

func TestBatchEnsureBytesAndDoubles(t *testing.T) {
	var b Batch
	b.ensureBytes(5)
	if len(b.Bytes) != 5 {
		t.Fatalf("got %d, want 5", len(b.Bytes))
	}
	var b2 Batch
	b2.ensureDoubles(6)
	if len(b2.Doubles) != 6 {
		t.Fatalf("got %d, want 6", len(b2.Doubles))
	}
}
