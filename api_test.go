package basebandsim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basebandsim/basebandsim/internal/registration"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

func TestAddInboundCallRingsAndReportsCallerID(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	call := inst.AddInboundCall("5550123", voicecall.PresentationAllowed, "Alice")
	require.NotNil(t, call)
	require.Equal(t, voicecall.Incoming, call.State)
	require.Equal(t, []string{"RING\r", "+CNAP: \"Alice\",0\r"}, c.lines)

	second := inst.AddInboundCall("5550124", voicecall.PresentationAllowed, "Bob")
	require.NotNil(t, second)
	require.Equal(t, voicecall.Waiting, second.State)
}

func TestAddInboundCallAllowedWithNoNameOmitsCNAP(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.AddInboundCall("5550123", voicecall.PresentationAllowed, "")
	require.Equal(t, []string{"RING\r"}, c.lines)
}

func TestAddInboundCallRestrictedPresentationReportsEmptyCNAP(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.AddInboundCall("5550123", voicecall.PresentationRestricted, "")
	require.Equal(t, []string{"RING\r", "+CNAP: \"\",1\r"}, c.lines)
}

func TestClearCallFreesEveryCallWithOneNoCarrier(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.AddInboundCall("5550123", voicecall.PresentationAllowed, "")
	inst.AddInboundCall("5550124", voicecall.PresentationAllowed, "")
	c.lines = nil

	inst.ClearCall()
	require.Equal(t, 0, inst.GetCallCount())
	require.Equal(t, []string{"NO CARRIER\r"}, c.lines)
}

func TestSetDataRegistrationDetachCascadeTearsDownPDP(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.SetRadioState(RadioOn)
	c.lines = nil

	inst.Send(`AT+CGDCONT=1,"IP","internet"`)
	inst.Send("AT+CGACT=1,1")
	c.lines = nil

	inst.SetDataRegistration(registration.Unregistered)
	require.Equal(t, []string{
		"+CGEV: ME DETACH\r",
		"+CGREG: 2,0,\"0000\",\"0000000\"\r\r",
	}, c.lines)

	inst.Send("AT+CGACT?")
	require.Equal(t, []string{"+CGACT: 1,0\r\n\rOK"}, c.lines[len(c.lines)-1:])
}

func TestDisconnectCallAndRemoteCallBusy(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.AddInboundCall("5550123", voicecall.PresentationAllowed, "")
	c.lines = nil

	require.True(t, inst.DisconnectCall("5550123"))
	require.Equal(t, []string{"NO CARRIER\r"}, c.lines)
	require.False(t, inst.DisconnectCall("5550123"))

	inst.AddInboundCall("5550125", voicecall.PresentationAllowed, "")
	c.lines = nil
	require.True(t, inst.RemoteCallBusy("5550125"))
	require.Equal(t, []string{"NO CARRIER\r"}, c.lines)
}

func TestUpdateCallAndGetCall(t *testing.T) {
	peers := NewPeerRegistry()
	inst, _ := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.AddInboundCall("5550123", voicecall.PresentationAllowed, "")
	require.True(t, inst.UpdateCall("5550123", voicecall.Active))

	call, ok := inst.GetCall(0)
	require.True(t, ok)
	require.Equal(t, voicecall.Active, call.State)

	_, ok = inst.GetCall(1)
	require.False(t, ok)
}

func TestReceiveCBSDeliversUnsol(t *testing.T) {
	peers := NewPeerRegistry()
	inst, c := newTestInstance(t, 5554, 0, peers, newTestPool(t, 1))

	inst.ReceiveCBS("AABBCC")
	require.Equal(t, []string{"+CBM: 0\r\nAABBCC\r"}, c.lines)
}
