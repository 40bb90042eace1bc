package relay

import (
	"sync"
)

// pairKey identifies a RemoteCall by its (from, to) instance pair, so
// Cancel can locate one without the caller retaining a *Call (§9 design
// note: "keep them in a single process-wide collection with stable
// identities so that a cancel can locate them by (from, to) tuple").
type pairKey struct {
	fromInstanceID, toPort, toInstanceID int
}

// Registry is the process-wide collection of in-flight RemoteCalls
// (§3 Ownership: "RemoteCall records... are owned by a process-wide
// intrusive list and released when the underlying channel closes").
type Registry struct {
	mu     sync.Mutex
	dialer Dialer
	calls  map[pairKey]*Call
}

// NewRegistry builds a Registry using dialer to open outbound relay
// connections. Pass relay.NetDialer{} for plain TCP, or a decorator (the
// demo harness wraps it in jaracil/nagle) for coalesced writes.
func NewRegistry(dialer Dialer) *Registry {
	if dialer == nil {
		dialer = NetDialer{}
	}
	return &Registry{dialer: dialer, calls: map[pairKey]*Call{}}
}

func (r *Registry) add(k pairKey, c *Call) {
	r.mu.Lock()
	r.calls[k] = c
	r.mu.Unlock()
}

func (r *Registry) remove(k pairKey) {
	r.mu.Lock()
	delete(r.calls, k)
	r.mu.Unlock()
}

// Dial starts a DIAL RemoteCall from fromInstanceID/fromNumber to the
// (port, instanceID) addressed by toNumber. result is invoked exactly
// once. Returns ok=false if toNumber does not resolve to a valid relay
// address, or if it addresses the caller's own instance (§4.7: "Model
// each RemoteCall as a small state machine").
func (r *Registry) Dial(basePort, fromInstanceID int, fromNumber, toNumber string, result ResultFunc) bool {
	toPort, toInstanceID, ok := StringToPort(toNumber, fromInstanceID)
	if !ok {
		return false
	}
	if toPort == basePort && toInstanceID == fromInstanceID {
		return false
	}
	k := pairKey{fromInstanceID, toPort, toInstanceID}
	c := start(r.dialer, toPort, toInstanceID, fromInstanceID, Dial, dialPayload(toInstanceID, fromNumber), func(success bool) {
		r.remove(k)
		if result != nil {
			result(success)
		}
	})
	r.add(k, c)
	return true
}

// Other starts a fire-and-forget BUSY/HOLD/ACCEPT RemoteCall.
func (r *Registry) Other(basePort, fromInstanceID int, fromNumber, toNumber string, typ OpType) bool {
	toPort, toInstanceID, ok := StringToPort(toNumber, fromInstanceID)
	if !ok {
		return false
	}
	k := pairKey{fromInstanceID, toPort, toInstanceID}
	c := start(r.dialer, toPort, toInstanceID, fromInstanceID, typ, otherPayload(typ, toInstanceID, fromNumber), func(bool) {
		r.remove(k)
	})
	r.add(k, c)
	return true
}

// SMS starts a RemoteCall carrying a single deliver PDU.
func (r *Registry) SMS(basePort, fromInstanceID int, toNumber string, pdu []byte) bool {
	toPort, toInstanceID, ok := StringToPort(toNumber, fromInstanceID)
	if !ok {
		return false
	}
	k := pairKey{fromInstanceID, toPort, toInstanceID}
	c := start(r.dialer, toPort, toInstanceID, fromInstanceID, SMS, smsPayload(toInstanceID, pdu), func(bool) {
		r.remove(k)
	})
	r.add(k, c)
	return true
}

// Cancel best-effort cancels any RemoteCall addressed to toNumber from
// fromInstanceID, per the §4.7 invariant that cancellation does not wait.
func (r *Registry) Cancel(fromInstanceID int, fromNumber, toNumber string) {
	toPort, toInstanceID, ok := StringToPort(toNumber, fromInstanceID)
	if !ok {
		return
	}
	k := pairKey{fromInstanceID, toPort, toInstanceID}
	r.mu.Lock()
	c, found := r.calls[k]
	r.mu.Unlock()
	if found {
		c.Cancel(r.dialer, fromNumber)
	}
}

// CloseAll cancels every RemoteCall this instance originated, used by
// Instance.Close to fix the source's documented resource leak (§9 Open
// Question: "amodem_destroy does not release... outstanding remote
// calls").
func (r *Registry) CloseAll(fromInstanceID int, fromNumber string) {
	r.mu.Lock()
	var mine []*Call
	for k, c := range r.calls {
		if k.fromInstanceID == fromInstanceID {
			mine = append(mine, c)
		}
	}
	r.mu.Unlock()
	for _, c := range mine {
		c.Cancel(r.dialer, fromNumber)
	}
}

// IsRemoteNumber reports whether number parses as a relay address
// reachable from ownInstanceID — used by the dial/SMS paths to set
// VoiceCall.IsRemote (§4.3, §4.6).
func IsRemoteNumber(number string, ownInstanceID int) bool {
	_, _, ok := StringToPort(number, ownInstanceID)
	return ok
}
