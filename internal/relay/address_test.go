package relay

import "testing"

func TestFromModemRoundTripsThroughToPort(t *testing.T) {
	cases := []struct {
		basePort, instanceID int
	}{
		{5554, 0},
		{5554, 2},
		{5556, 0},
		{5556, 3},
		{5572, 8},
	}
	for _, c := range cases {
		n := FromModem(c.basePort, c.instanceID)
		if n < 0 {
			t.Fatalf("FromModem(%d,%d) unexpectedly failed", c.basePort, c.instanceID)
		}
		port, instanceID, ok := ToPort(n)
		if !ok || port != c.basePort || instanceID != c.instanceID {
			t.Fatalf("ToPort(FromModem(%d,%d)=%d) = (%d,%d,%v), want (%d,%d,true)",
				c.basePort, c.instanceID, n, port, instanceID, ok, c.basePort, c.instanceID)
		}
	}
}

func TestFromModemRejectsOddPort(t *testing.T) {
	if n := FromModem(5555, 0); n != -1 {
		t.Fatalf("got %d, want -1 for an odd base port", n)
	}
}

func TestFromModemRejectsOutOfRangeInstance(t *testing.T) {
	if n := FromModem(5554, 9); n != -1 {
		t.Fatalf("got %d, want -1 for instanceID out of [0,8]", n)
	}
}

func TestToPortRejectsNonRelayNumber(t *testing.T) {
	if _, _, ok := ToPort(1); ok {
		t.Fatal("expected a number below NumberBase to be rejected")
	}
}

func TestStringToPortStripsMultipartySemicolon(t *testing.T) {
	n := FromModem(5554, 2)
	port, instanceID, ok := StringToPort(itoa(n)+";", 0)
	if !ok || port != 5554 || instanceID != 2 {
		t.Fatalf("got (%d,%d,%v), want (5554,2,true)", port, instanceID, ok)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
