package registration

import "testing"

func TestVoiceUnsolModeDisabledProducesNothing(t *testing.T) {
	if _, ok := VoiceUnsol(Disabled, Home, 0x1234, 0x5678); ok {
		t.Fatal("expected Disabled mode to report no unsolicited text")
	}
}

func TestVoiceUnsolEnabledOmitsAreaAndCell(t *testing.T) {
	text, ok := VoiceUnsol(Enabled, Home, 0x1234, 0x5678)
	if !ok {
		t.Fatal("expected Enabled mode to report unsolicited text")
	}
	if want := "+CREG: 1,1\r"; text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestVoiceUnsolFullIncludesAreaAndCell(t *testing.T) {
	text, ok := VoiceUnsol(EnabledFull, Roaming, 0x1234, 0x5678)
	if !ok {
		t.Fatal("expected EnabledFull mode to report unsolicited text")
	}
	if want := "+CREG: 2,5,\"1234\",\"0005678\"\r"; text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestDataUnsolFullWithNetworkTypeAppendsField(t *testing.T) {
	text, ok := DataUnsol(EnabledFull, Home, 1, 2, true, 3)
	if !ok {
		t.Fatal("expected EnabledFull mode to report unsolicited text")
	}
	if want := "+CGREG: 2,1,\"0001\",\"0000002\",\"00000003\"\r"; text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestIndexForStateOnlyResolvesHomeAndRoaming(t *testing.T) {
	if got := IndexForState(Home); got != HomeIndex {
		t.Fatalf("got %d, want HomeIndex", got)
	}
	if got := IndexForState(Roaming); got != RoamingIndex {
		t.Fatalf("got %d, want RoamingIndex", got)
	}
	if got := IndexForState(Searching); got != -1 {
		t.Fatalf("got %d, want -1 for a non-HOME/ROAMING state", got)
	}
}

func TestFindByNameSearchesRequestedForm(t *testing.T) {
	tbl := NewDefaultTable(310, 260)
	if idx := tbl.FindByName(ShortAlpha, "TelKila"); idx != RoamingIndex {
		t.Fatalf("got %d, want RoamingIndex", idx)
	}
	if idx := tbl.FindByName(ShortAlpha, "nonexistent"); idx != -1 {
		t.Fatalf("got %d, want -1 for an unknown name", idx)
	}
}

func TestHasNetworkRejectsOutOfRangeOrDeniedOperator(t *testing.T) {
	tbl := NewDefaultTable(310, 260)
	if !tbl.HasNetwork() {
		t.Fatal("expected the default table's HOME selection to have network")
	}
	tbl.OperIndex = -1
	if tbl.HasNetwork() {
		t.Fatal("expected a deregistered OperIndex to report no network")
	}
	tbl.OperIndex = HomeIndex
	tbl.Operators[HomeIndex].Status = StatusDenied
	if tbl.HasNetwork() {
		t.Fatal("expected a DENIED operator to report no network")
	}
}
