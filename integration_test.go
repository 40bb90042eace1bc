package basebandsim

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/basebandsim/basebandsim/internal/pdp"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

// collector captures every reply/unsol line an Instance emits, in order,
// so a scenario test can assert on the exact sequence of wire text.
type collector struct {
	lines []string
}

func (c *collector) record(text string) { c.lines = append(c.lines, text) }

func newTestPool(t *testing.T, n int) *pdp.Pool {
	t.Helper()
	dns := [2]netip.Addr{netip.MustParseAddr("8.8.8.8"), netip.MustParseAddr("8.8.4.4")}
	return pdp.NewPool(n, netip.MustParseAddr("10.0.2.15"), netip.MustParseAddr("10.0.2.2"), dns)
}

func newTestInstance(t *testing.T, basePort, instanceID int, peers *PeerRegistry, pool *pdp.Pool) (*Instance, *collector) {
	t.Helper()
	c := &collector{}
	inst, err := NewInstance(InstanceConfig{
		BasePort:   basePort,
		InstanceID: instanceID,
		Unsol:      c.record,
		Peers:      peers,
		DataPool:   pool,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = inst.Close() })
	return inst, c
}

func TestBareATRepliesOK(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT")
	require.Equal(t, []string{"OK"}, c.lines)
}

func TestRadioPowerOnAndQuery(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT+CFUN=1")
	inst.Send("AT+CFUN?")
	require.Equal(t, []string{
		"OK",
		"+CREG: 2,1,\"0000\",\"0000000\"\r\r",
		"+CGREG: 2,1,\"0000\",\"0000000\"\r\r",
		"+CFUN: 1\r\rOK",
	}, c.lines)
}

func TestCFUNRejectsInvalidValue(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT+CFUN=9")
	require.Equal(t, []string{"+CME ERROR: 50"}, c.lines)
}

func TestCREGUnsolModeFullQuery(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT+CREG?")
	require.Equal(t, []string{"+CREG: 2,0,\"0000\",\"0000000\"\r\rOK"}, c.lines)
}

func TestCPINLockedRequiresCorrectPINThenUnlocks(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))
	inst.sim = NewSimCard("1234", "99999999")
	inst.sim.SetStatus(SimPIN)

	inst.Send("AT+CPIN?")
	inst.Send(`AT+CPIN="0000"`)
	inst.Send(`AT+CPIN="1234"`)
	inst.Send("AT+CPIN?")

	require.Equal(t, []string{
		"+CPIN: SIM PIN\r\rOK",
		"+CME ERROR: 16",
		"OK",
		"+CPIN: READY\r\rOK",
	}, c.lines)
}

func TestPDPDefineActivateReportsContext(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send(`AT+CGDCONT=1,"IP","internet"`)
	inst.Send("AT+CGACT=1,1")
	inst.Send("AT+CGACT?")

	require.Equal(t, []string{"OK", "OK", "+CGACT: 1,1\r\n\rOK"}, c.lines)
}

func TestPDPActivateFailsForUndefinedContext(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT+CGACT=1,1")
	require.Equal(t, []string{"+CME ERROR: 143"}, c.lines)
}

func TestDialingTheEmergencyNumberAlertsAndEntersEmergencyMode(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("ATD911;")
	time.Sleep(callDialDelay + 200*time.Millisecond)

	require.Equal(t, []string{"CALL STATE CHANGED\r", "+WSOS: 1\r\rOK", "CALL STATE CHANGED\r"}, c.lines)
	require.True(t, inst.inEmergencyMode)

	inst.mu.Lock()
	call := inst.calls.Find(1)
	inst.mu.Unlock()
	require.NotNil(t, call)
	require.Equal(t, voicecall.Alerting, call.State)
}

func TestSMSSubmitRejectsMalformedPDU(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.Send("AT+CMGS=10")
	inst.Send("not-hex-pdu")

	require.Equal(t, []string{"> ", "+CME ERROR: 50"}, c.lines)
}

func TestDialRejectsTooManyCalls(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	for i := 0; i < 7; i++ {
		inst.Send("ATD5550000")
	}
	inst.Send("ATD5550001")

	// Each successful dial emits a "CALL STATE CHANGED" unsol line followed
	// by its OK reply; the 8th dial is rejected before either is sent.
	require.Len(t, c.lines, 7*2+1)
	require.Equal(t, "ERROR: TOO MANY CALLS", c.lines[len(c.lines)-1])
}
