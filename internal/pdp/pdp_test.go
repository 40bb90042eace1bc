package pdp

import (
	"net/netip"
	"testing"
)

func testPool(n int) *Pool {
	dns := [2]netip.Addr{netip.MustParseAddr("8.8.8.8"), netip.MustParseAddr("8.8.4.4")}
	return NewPool(n, netip.MustParseAddr("10.0.2.15"), netip.MustParseAddr("10.0.2.2"), dns)
}

func netipAddr() netip.Addr {
	return netip.MustParseAddr("192.0.2.1")
}

func TestDefineRejectsOutOfRangeCid(t *testing.T) {
	tbl := NewTable(testPool(2))
	if tbl.Define(0, "internet", netipAddr()) {
		t.Fatal("expected Define(0, ...) to fail")
	}
	if tbl.Define(MaxContexts+1, "internet", netipAddr()) {
		t.Fatal("expected Define(MaxContexts+1, ...) to fail")
	}
}

func TestDefineRejectsActiveContext(t *testing.T) {
	tbl := NewTable(testPool(2))
	tbl.Define(1, "internet", netipAddr())
	tbl.Activate(1)
	if tbl.Define(1, "other", netipAddr()) {
		t.Fatal("expected Define on an active context to fail")
	}
}

func TestActivateAcquiresAndDeactivateReleasesLink(t *testing.T) {
	pool := testPool(1)
	tbl := NewTable(pool)
	tbl.Define(1, "internet", netipAddr())
	if !tbl.Activate(1) {
		t.Fatal("expected Activate to succeed")
	}
	if tbl.Contexts[0].Link == nil {
		t.Fatal("expected a bound DataLink after Activate")
	}
	tbl.Deactivate(1)
	if tbl.Contexts[0].Link != nil || tbl.Contexts[0].Active {
		t.Fatal("expected Deactivate to clear the link and Active flag")
	}
	// The pool's one link must be reusable now.
	if !tbl.Activate(1) {
		t.Fatal("expected the released link to be reacquirable")
	}
}

func TestActivateFailsWhenPoolExhausted(t *testing.T) {
	pool := testPool(1)
	tbl := NewTable(pool)
	tbl.Define(1, "internet", netipAddr())
	tbl.Define(2, "ims", netipAddr())
	if !tbl.Activate(1) {
		t.Fatal("expected first Activate to succeed")
	}
	if tbl.Activate(2) {
		t.Fatal("expected second Activate to fail: pool has only one link")
	}
}

func TestDeactivateAllTearsDownEveryContext(t *testing.T) {
	pool := testPool(MaxContexts)
	tbl := NewTable(pool)
	for cid := 1; cid <= MaxContexts; cid++ {
		tbl.Define(cid, "internet", netipAddr())
		tbl.Activate(cid)
	}
	tbl.DeactivateAll()
	for cid := 1; cid <= MaxContexts; cid++ {
		if tbl.Contexts[cid-1].Active {
			t.Fatalf("context %d still active after DeactivateAll", cid)
		}
	}
}

func TestBearerIDIsTheDotSuffix(t *testing.T) {
	l := &DataLink{Name: "rmnet.3"}
	if got := l.BearerID(); got != "3" {
		t.Fatalf("got %q, want %q", got, "3")
	}
}
