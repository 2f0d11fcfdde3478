package raw

import "testing"

func TestNextPow2(t *testing.T) {
	cases := map[uint64]uint64{
		0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1023: 1024, 1024: 1024, 1025: 2048,
	}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestGrowthTargetAtLeastDoubles(t *testing.T) {
	if got := growthTarget(16, 1); got < 32 {
		t.Errorf("growthTarget(16, 1) = %d, want >= 32", got)
	}
}

func TestGrowthTargetHonorsLoadFactor(t *testing.T) {
	got := growthTarget(16, 100)
	if float64(100)/float64(got) > loadFactor {
		t.Errorf("growthTarget(16, 100) = %d, load factor exceeded", got)
	}
}

func TestSlotCASAndTags(t *testing.T) {
	var s slot
	if !isEmpty(s.load()) {
		t.Fatal("fresh slot must be Empty")
	}

	e := newEntry(1, "k", "v")
	st := entryState(e)
	if !s.cas(nil, st) {
		t.Fatal("CAS from Empty must succeed")
	}
	if !isEntry(s.load()) {
		t.Fatal("slot must be Entry after successful CAS")
	}

	if s.cas(nil, tombstoneState) {
		t.Fatal("CAS against a stale old pointer must fail")
	}

	if !s.cas(st, tombstoneState) {
		t.Fatal("CAS from the correct current pointer must succeed")
	}
	if !isTombstone(s.load()) {
		t.Fatal("slot must be Tombstone")
	}
}

func TestLenStripesSumAcrossShards(t *testing.T) {
	tb := newTable(8)
	tb.addLen(0, 3)
	tb.addLen(1, 4)
	tb.addLen(counterStripes, 5) // wraps to stripe 0
	if got := tb.len(); got != 12 {
		t.Errorf("len() = %d, want 12", got)
	}
}
