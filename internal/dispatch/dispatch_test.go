package dispatch

import "testing"

func TestFirstHitWinsOverShorterPrefix(t *testing.T) {
	tbl := Table[int]{
		{Matcher: MatchExact("+COPS=?"), Literal: "TEST"},
		{Matcher: MatchPrefix("+COPS="), Literal: "SET"},
	}
	var got string
	tbl.Dispatch(0, "+COPS=?", func(s string) { got = s })
	if got != "TEST" {
		t.Fatalf("got %q, want the exact-match entry to win", got)
	}
	tbl.Dispatch(0, "+COPS=1,0", func(s string) { got = s })
	if got != "SET" {
		t.Fatalf("got %q, want the prefix entry to win once the exact one doesn't match", got)
	}
}

func TestNoMatchReportsUnsupported(t *testing.T) {
	var tbl Table[int]
	var got string
	tbl.Dispatch(0, "+UNKNOWN", func(s string) { got = s })
	if got != "ERROR: UNSUPPORTED" {
		t.Fatalf("got %q, want the no-match fallback", got)
	}
}

func TestEmptyEntryDefaultsToOK(t *testing.T) {
	tbl := Table[int]{{Matcher: MatchExact("")}}
	var got string
	tbl.Dispatch(0, "", func(s string) { got = s })
	if got != "OK" {
		t.Fatalf("got %q, want the bare-entry default of OK", got)
	}
}

func TestHandlerEntryBypassesReply(t *testing.T) {
	called := false
	tbl := Table[int]{{
		Matcher: MatchPrefix("+CUSTOM"),
		Handler: func(ctx int, cmd string) { called = true },
	}}
	replyCalled := false
	tbl.Dispatch(0, "+CUSTOM=1", func(string) { replyCalled = true })
	if !called {
		t.Fatal("expected Handler to be invoked")
	}
	if replyCalled {
		t.Fatal("Handler actions must not also invoke reply")
	}
}
