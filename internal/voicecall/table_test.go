package voicecall

import "testing"

func TestAllocSmallestUnusedID(t *testing.T) {
	var tbl Table
	c1 := tbl.Alloc(Outbound, Voice, "15550001")
	c2 := tbl.Alloc(Outbound, Voice, "15550002")
	if c1.ID != 1 || c2.ID != 2 {
		t.Fatalf("got ids %d,%d want 1,2", c1.ID, c2.ID)
	}
	tbl.Free(c1.ID, CauseNormal)
	c3 := tbl.Alloc(Outbound, Voice, "15550003")
	if c3.ID != 1 {
		t.Fatalf("got id %d, want smallest-unused 1", c3.ID)
	}
}

func TestAllocFullTable(t *testing.T) {
	var tbl Table
	for i := 0; i < MaxCalls; i++ {
		if tbl.Alloc(Outbound, Voice, "1") == nil {
			t.Fatalf("unexpected nil at call %d", i)
		}
	}
	if tbl.Alloc(Outbound, Voice, "1") != nil {
		t.Fatal("expected nil once table is full")
	}
}

func TestMultiCountInvariant(t *testing.T) {
	var tbl Table
	a := tbl.Alloc(Outbound, Voice, "1")
	b := tbl.Alloc(Outbound, Voice, "2")
	c := tbl.Alloc(Outbound, Voice, "3")
	tbl.SetMulti(a)
	tbl.SetMulti(b)
	tbl.SetMulti(c)
	if tbl.MultiCount() != 3 {
		t.Fatalf("got %d, want 3", tbl.MultiCount())
	}
	tbl.UnsetMulti(a)
	tbl.UnsetMulti(b)
	// Dropping to exactly 1 member must clear it too, per the {0} U [2,5] invariant.
	if tbl.MultiCount() != 0 {
		t.Fatalf("got %d, want 0 once only one member would remain", tbl.MultiCount())
	}
	if c.Multi {
		t.Fatal("last remaining member should have been cleared")
	}
}

func TestCHLDConferenceRequiresHeldAndActive(t *testing.T) {
	var tbl Table
	a := tbl.Alloc(Outbound, Voice, "1")
	a.State = Active
	if err := tbl.Conference(); err == nil {
		t.Fatal("expected ErrForbidden with no HELD call present")
	}
	b := tbl.Alloc(Outbound, Voice, "2")
	b.State = Held
	if err := tbl.Conference(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.MultiCount() != 2 {
		t.Fatalf("got multiCount %d, want 2", tbl.MultiCount())
	}
}

func TestHoldSpecificRejectsWhenAnotherIsHeld(t *testing.T) {
	var tbl Table
	a := tbl.Alloc(Outbound, Voice, "1")
	a.State = Active
	b := tbl.Alloc(Outbound, Voice, "2")
	b.State = Held
	if err := tbl.HoldSpecific(a.ID); err == nil {
		t.Fatal("expected ErrForbidden when another call is already HELD")
	}
}
