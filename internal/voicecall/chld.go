package voicecall

import "errors"

// ErrFeatureDisabled is returned by HoldActive when the HOLD feature bit
// is not set (§4.3: "if HOLD feature disabled, reply ERROR: UNSUPPORTED").
var ErrFeatureDisabled = errors.New("voicecall: hold feature disabled")

// ErrForbidden corresponds to +CME ERROR: 3 (operation not allowed),
// returned by the CHLD subcommands that validate call-table population
// before mutating it.
var ErrForbidden = errors.New("voicecall: operation not allowed")

// ReleaseHeldWaitingIncoming implements AT+CHLD=0: release all HELD,
// WAITING and INCOMING calls with cause NORMAL.
func (t *Table) ReleaseHeldWaitingIncoming() {
	for _, c := range snapshot(t.calls) {
		switch c.State {
		case Held, Waiting, Incoming:
			t.Free(c.ID, CauseNormal)
		}
	}
}

// ReleaseActive implements AT+CHLD=1 (no digit): release all ACTIVE
// calls, then promote HELD->ACTIVE (only if there was no WAITING call
// before the release) and WAITING->ACTIVE unconditionally.
func (t *Table) ReleaseActive() {
	waitingCallOnly := t.HasWaiting()
	for _, c := range snapshot(t.calls) {
		if c.State == Active {
			t.Free(c.ID, CauseNormal)
		}
	}
	t.promote(waitingCallOnly)
}

// ReleaseSpecific implements AT+CHLD=1x: release only the call with the
// given id.
func (t *Table) ReleaseSpecific(id int) bool {
	_, ok := t.Free(id, CauseNormal)
	return ok
}

// HoldActive implements AT+CHLD=2 (no digit): place all ACTIVE calls on
// HELD, then promote with the same waitingCallOnly rule as
// ReleaseActive. Returns ErrFeatureDisabled if featureHold is false.
func (t *Table) HoldActive(featureHold bool) error {
	if !featureHold {
		return ErrFeatureDisabled
	}
	waitingCallOnly := t.HasWaiting()
	for _, c := range t.calls {
		if c.State == Active {
			c.State = Held
		}
	}
	t.promote(waitingCallOnly)
	return nil
}

// HoldSpecific implements AT+CHLD=2x: call x must be ACTIVE and no other
// call may be HELD, else ErrForbidden. On success, x's multiparty
// membership (not its state) is unset, and every other ACTIVE call moves
// to HELD.
func (t *Table) HoldSpecific(id int) error {
	target := t.Find(id)
	if target == nil || target.State != Active {
		return ErrForbidden
	}
	for _, c := range t.calls {
		if c.ID != id && c.State == Held {
			return ErrForbidden
		}
	}
	t.UnsetMulti(target)
	for _, c := range t.calls {
		if c.ID != id && c.State == Active {
			c.State = Held
		}
	}
	return nil
}

// Conference implements AT+CHLD=3: join HELD and ACTIVE calls into a
// multiparty group. Requires at least 2 total calls and current
// MultiCount() < MaxMultiparty, at least one HELD and at least one
// ACTIVE call, else ErrForbidden. All HELD calls move to ACTIVE and join
// multiparty; only the first ACTIVE call found also joins multiparty —
// any additional pre-existing ACTIVE calls are left untouched, matching
// the source's observed (if narrow) behavior.
func (t *Table) Conference() error {
	if len(t.calls) < 2 || t.multiCount >= MaxMultiparty {
		return ErrForbidden
	}
	firstActive := t.FindByState(Active)
	anyHeld := t.FindByState(Held)
	if firstActive == nil || anyHeld == nil {
		return ErrForbidden
	}
	for _, c := range t.calls {
		if c.State == Held {
			c.State = Active
			t.SetMulti(c)
		}
	}
	t.SetMulti(firstActive)
	return nil
}

// Transfer implements AT+CHLD=4: promote the first HELD call to ACTIVE.
func (t *Table) Transfer() {
	if c := t.FindByState(Held); c != nil {
		c.State = Active
	}
}

func (t *Table) promote(waitingCallOnly bool) {
	for _, c := range t.calls {
		if (c.State == Held && !waitingCallOnly) || c.State == Waiting {
			c.State = Active
		}
	}
}

func snapshot(calls []*Call) []*Call {
	out := make([]*Call, len(calls))
	copy(out, calls)
	return out
}
