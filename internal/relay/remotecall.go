package relay

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
)

// OpType is the relay operation a RemoteCall carries.
type OpType int

const (
	Dial OpType = iota
	Busy
	Hold
	Accept
	Hangup
	SMS
)

func (t OpType) verb() string {
	switch t {
	case Dial:
		return "call"
	case Busy:
		return "busy"
	case Hold:
		return "hold"
	case Accept:
		return "accept"
	case Hangup:
		return "cancel"
	default:
		return ""
	}
}

// Phase is where a RemoteCall sits in its {Writing, Quitting, Reading,
// Done} state machine (§9 design note).
type Phase int

const (
	Writing Phase = iota
	Quitting
	Reading
	Done
)

// Dialer opens the transport connection to another instance's relay
// port. The core depends only on this interface, keeping it
// transport-agnostic; cmd/basebandsim supplies the real net.Dial (wrapped
// in jaracil/nagle) implementation.
type Dialer interface {
	Dial(port int) (io.ReadWriteCloser, error)
}

// NetDialer is the default Dialer: a plain TCP connection to
// localhost:port.
type NetDialer struct{}

func (NetDialer) Dial(port int) (io.ReadWriteCloser, error) {
	return net.Dial("tcp", "localhost:"+strconv.Itoa(port))
}

// ResultFunc is invoked exactly once for a DIAL call, with success=true
// once the payload and the trailing quit line have both been written (no
// reply from the peer is awaited), or success=false on any transport
// failure.
type ResultFunc func(success bool)

// Call is one in-flight relay operation.
type Call struct {
	Type           OpType
	ToPort         int
	ToInstanceID   int
	FromInstanceID int

	mu     sync.Mutex
	phase  Phase
	conn   io.ReadWriteCloser
	result ResultFunc
}

func payload(typ OpType, toInstanceID int, line string) []byte {
	var b []byte
	if toInstanceID != 0 {
		b = append(b, fmt.Sprintf("mux modem %d\n", toInstanceID)...)
	}
	b = append(b, line...)
	return b
}

func dialPayload(toInstanceID int, fromNumber string) []byte {
	return payload(Dial, toInstanceID, fmt.Sprintf("gsm call %s\n", fromNumber))
}

func otherPayload(typ OpType, toInstanceID int, fromNumber string) []byte {
	return payload(typ, toInstanceID, fmt.Sprintf("gsm %s %s\n", typ.verb(), fromNumber))
}

func smsPayload(toInstanceID int, pdu []byte) []byte {
	line := fmt.Sprintf("sms pdu %s\n", hex.EncodeToString(pdu))
	return payload(SMS, toInstanceID, line)
}

// start dials out and runs the Writing -> Quitting -> Reading pipeline in
// a background goroutine, mirroring the source's event-loop callback
// (remote_call_event) with Go's native concurrency primitive instead of
// hand-rolled polling, per §9's "use the host runtime's... primitive"
// note applied to sockets as well as timers.
func start(dialer Dialer, toPort, toInstanceID, fromInstanceID int, typ OpType, body []byte, result ResultFunc) *Call {
	c := &Call{
		Type:           typ,
		ToPort:         toPort,
		ToInstanceID:   toInstanceID,
		FromInstanceID: fromInstanceID,
		result:         result,
	}
	conn, err := dialer.Dial(toPort)
	if err != nil {
		c.finish(false)
		return c
	}
	c.conn = conn
	go c.run(body)
	return c
}

func (c *Call) run(body []byte) {
	c.setPhase(Writing)
	if _, err := c.conn.Write(body); err != nil {
		c.fail()
		return
	}
	c.setPhase(Quitting)
	if _, err := c.conn.Write([]byte("quit\n")); err != nil {
		c.fail()
		return
	}
	c.finish(true)
	c.setPhase(Reading)
	r := bufio.NewReader(c.conn)
	for {
		if _, err := r.ReadByte(); err != nil {
			break
		}
	}
	c.setPhase(Done)
	c.conn.Close()
}

func (c *Call) fail() {
	c.finish(false)
	c.setPhase(Done)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Call) finish(success bool) {
	c.mu.Lock()
	result := c.result
	c.result = nil
	c.mu.Unlock()
	if result != nil {
		result(success)
	}
}

func (c *Call) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// Phase reports the call's current state-machine phase.
func (c *Call) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Cancel sends a best-effort HANGUP payload without waiting for the
// result (§4.7 invariant: "cancellation is best-effort").
func (c *Call) Cancel(dialer Dialer, fromNumber string) {
	start(dialer, c.ToPort, c.ToInstanceID, c.FromInstanceID, Hangup, otherPayload(Hangup, c.ToInstanceID, fromNumber), nil)
}
