package voicecall

import "testing"

func TestNormalizeExpandsShortForms(t *testing.T) {
	cases := []struct {
		digits     string
		instanceID int
		want       string
	}{
		{"44321", 3, PhonePrefix[:6] + "44321"},
		{"4321", 3, PhonePrefix[:6] + "4" + "4321"},
	}
	for _, c := range cases {
		got := Normalize(c.digits, c.instanceID)
		if got != c.want {
			t.Errorf("Normalize(%q, %d) = %q, want %q", c.digits, c.instanceID, got, c.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := Normalize("4321", 2)
	twice := Normalize(once, 2)
	if once != twice {
		t.Fatalf("Normalize is not idempotent: %q != %q", once, twice)
	}
}

func TestNormalizeLeavesLongNumbersAlone(t *testing.T) {
	n := "5551234567890"
	if got := Normalize(n, 0); got != n {
		t.Fatalf("Normalize(%q) = %q, want unchanged", n, got)
	}
}

func TestStripDialSuffix(t *testing.T) {
	cases := []struct {
		in, wantDigits string
		wantCLIR       bool
	}{
		{"15551234", "15551234", false},
		{"15551234;", "15551234", false},
		{"15551234I", "15551234", true},
		{"15551234I;", "15551234", true},
	}
	for _, c := range cases {
		digits, clir := StripDialSuffix(c.in)
		if digits != c.wantDigits || clir != c.wantCLIR {
			t.Errorf("StripDialSuffix(%q) = (%q,%v), want (%q,%v)", c.in, digits, clir, c.wantDigits, c.wantCLIR)
		}
	}
}
